package supabase

import (
	"context"
	"fmt"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
)

// ============================================================
// Employees and their pay ledger
// ============================================================

func (c *Client) ListEmployees(ctx context.Context, tenantID string) ([]domain.Employee, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListEmployees")
	defer span.End()

	path := fmt.Sprintf("employees?tenant_id=eq.%s", tenantID)
	return fetchList[domain.Employee](ctx, c, path)
}

func (c *Client) CreateEmployee(ctx context.Context, e *domain.Employee) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateEmployee")
	defer span.End()

	_, err := insertOne(ctx, c, "employees", *e)
	return err
}

func (c *Client) UpdateEmployee(ctx context.Context, e *domain.Employee) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateEmployee")
	defer span.End()

	path := fmt.Sprintf("employees?tenant_id=eq.%s&id=eq.%s", e.TenantID, e.ID)
	return c.doPatch(ctx, path, e)
}

func (c *Client) DeleteEmployee(ctx context.Context, tenantID, employeeID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteEmployee")
	defer span.End()

	path := fmt.Sprintf("employees?tenant_id=eq.%s&id=eq.%s", tenantID, employeeID)
	return c.doDelete(ctx, path)
}

func (c *Client) ListEmployeeTransactions(ctx context.Context, tenantID string) ([]domain.EmployeeTransaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListEmployeeTransactions")
	defer span.End()

	path := fmt.Sprintf("employee_transactions?tenant_id=eq.%s&order=date.desc", tenantID)
	return fetchList[domain.EmployeeTransaction](ctx, c, path)
}

func (c *Client) CreateEmployeeTransaction(ctx context.Context, t *domain.EmployeeTransaction) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateEmployeeTransaction")
	defer span.End()

	_, err := insertOne(ctx, c, "employee_transactions", *t)
	return err
}

func (c *Client) UpdateEmployeeTransaction(ctx context.Context, t *domain.EmployeeTransaction) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateEmployeeTransaction")
	defer span.End()

	path := fmt.Sprintf("employee_transactions?tenant_id=eq.%s&id=eq.%s", t.TenantID, t.ID)
	return c.doPatch(ctx, path, t)
}

func (c *Client) DeleteEmployeeTransaction(ctx context.Context, tenantID, txID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteEmployeeTransaction")
	defer span.End()

	path := fmt.Sprintf("employee_transactions?tenant_id=eq.%s&id=eq.%s", tenantID, txID)
	return c.doDelete(ctx, path)
}
