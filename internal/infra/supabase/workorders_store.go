package supabase

import (
	"context"
	"fmt"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
)

// ============================================================
// Work orders store — hybrid rows: scalar columns for the filterable
// fields (status, total_value, payment_status), one nested `details`
// document for checklist/damages/tasks. Read and written symmetrically.
// ============================================================

func (c *Client) ListWorkOrders(ctx context.Context, tenantID string) ([]domain.WorkOrder, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListWorkOrders")
	defer span.End()

	path := fmt.Sprintf("work_orders?tenant_id=eq.%s&order=created_at.desc", tenantID)
	return fetchList[domain.WorkOrder](ctx, c, path)
}

func (c *Client) CreateWorkOrder(ctx context.Context, w *domain.WorkOrder) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateWorkOrder")
	defer span.End()

	_, err := insertOne(ctx, c, "work_orders", *w)
	return err
}

func (c *Client) UpdateWorkOrder(ctx context.Context, w *domain.WorkOrder) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateWorkOrder")
	defer span.End()

	path := fmt.Sprintf("work_orders?tenant_id=eq.%s&id=eq.%s", w.TenantID, w.ID)
	return c.doPatch(ctx, path, w)
}

func (c *Client) DeleteWorkOrder(ctx context.Context, tenantID, orderID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteWorkOrder")
	defer span.End()

	path := fmt.Sprintf("work_orders?tenant_id=eq.%s&id=eq.%s", tenantID, orderID)
	return c.doDelete(ctx, path)
}
