package service

import (
	"context"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"

	"github.com/google/uuid"
)

// AddEmployee creates a staff member. Balance always starts at zero; it
// only moves through ledger entries.
func (s *Session) AddEmployee(ctx context.Context, e domain.Employee) (*domain.Employee, bool) {
	ctx, span := actionTracer.Start(ctx, "Session.AddEmployee")
	defer span.End()

	store := s.Store()
	if store == nil {
		return nil, false
	}

	e.ID = uuid.New().String()
	e.TenantID = store.Tenant().ID
	e.Balance = 0

	ok := s.mutate(ctx, "employee",
		func() { store.PutEmployee(e) },
		func() { store.DeleteEmployee(e.ID) },
		func(ctx context.Context) error { return s.remote.CreateEmployee(ctx, &e) },
	)
	if !ok {
		return nil, false
	}
	return &e, true
}

// UpdateEmployee replaces an employee record, preserving the ledger-derived
// balance.
func (s *Session) UpdateEmployee(ctx context.Context, e domain.Employee) bool {
	ctx, span := actionTracer.Start(ctx, "Session.UpdateEmployee")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.Employee(e.ID)
	if !ok {
		return false
	}
	e.TenantID = prev.TenantID
	e.Balance = prev.Balance

	return s.mutate(ctx, "employee",
		func() { store.PutEmployee(e) },
		func() { store.PutEmployee(prev) },
		func(ctx context.Context) error { return s.remote.UpdateEmployee(ctx, &e) },
	)
}

// DeleteEmployee removes a staff member.
func (s *Session) DeleteEmployee(ctx context.Context, employeeID string) bool {
	ctx, span := actionTracer.Start(ctx, "Session.DeleteEmployee")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.Employee(employeeID)
	if !ok {
		return false
	}

	return s.mutate(ctx, "employee",
		func() { store.DeleteEmployee(employeeID) },
		func() { store.PutEmployee(prev) },
		func(ctx context.Context) error { return s.remote.DeleteEmployee(ctx, prev.TenantID, employeeID) },
	)
}

// AddEmployeeTransaction appends a pay-ledger entry and moves the
// employee's balance by the signed amount. Both changes roll back together
// when the entry fails to persist; the balance write itself is best-effort
// since the ledger is the source of truth.
func (s *Session) AddEmployeeTransaction(ctx context.Context, t domain.EmployeeTransaction) (*domain.EmployeeTransaction, bool) {
	ctx, span := actionTracer.Start(ctx, "Session.AddEmployeeTransaction")
	defer span.End()

	store := s.Store()
	if store == nil {
		return nil, false
	}

	emp, ok := store.Employee(t.EmployeeID)
	if !ok {
		return nil, false
	}

	t.ID = uuid.New().String()
	t.TenantID = store.Tenant().ID
	if t.Date.IsZero() {
		t.Date = time.Now()
	}

	updated := emp
	updated.Balance += t.Amount

	ok = s.mutate(ctx, "employee_tx",
		func() {
			store.PutEmployeeTransaction(t)
			store.PutEmployee(updated)
		},
		func() {
			store.DeleteEmployeeTransaction(t.ID)
			store.PutEmployee(emp)
		},
		func(ctx context.Context) error { return s.remote.CreateEmployeeTransaction(ctx, &t) },
	)
	if !ok {
		return nil, false
	}

	s.persistOnly(ctx, "employee", func(ctx context.Context) error {
		return s.remote.UpdateEmployee(ctx, &updated)
	})
	return &t, true
}

// UpdateEmployeeTransaction edits a ledger entry; the employee balance is
// adjusted by the amount difference so it keeps matching the ledger sum.
func (s *Session) UpdateEmployeeTransaction(ctx context.Context, t domain.EmployeeTransaction) bool {
	ctx, span := actionTracer.Start(ctx, "Session.UpdateEmployeeTransaction")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.EmployeeTransaction(t.ID)
	if !ok {
		return false
	}
	emp, ok := store.Employee(prev.EmployeeID)
	if !ok {
		return false
	}
	t.TenantID = prev.TenantID
	t.EmployeeID = prev.EmployeeID

	updated := emp
	updated.Balance += t.Amount - prev.Amount

	ok = s.mutate(ctx, "employee_tx",
		func() {
			store.PutEmployeeTransaction(t)
			store.PutEmployee(updated)
		},
		func() {
			store.PutEmployeeTransaction(prev)
			store.PutEmployee(emp)
		},
		func(ctx context.Context) error { return s.remote.UpdateEmployeeTransaction(ctx, &t) },
	)
	if !ok {
		return false
	}

	s.persistOnly(ctx, "employee", func(ctx context.Context) error {
		return s.remote.UpdateEmployee(ctx, &updated)
	})
	return true
}

// DeleteEmployeeTransaction reverses a ledger entry, subtracting its signed
// amount from the employee balance.
func (s *Session) DeleteEmployeeTransaction(ctx context.Context, txID string) bool {
	ctx, span := actionTracer.Start(ctx, "Session.DeleteEmployeeTransaction")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.EmployeeTransaction(txID)
	if !ok {
		return false
	}
	emp, ok := store.Employee(prev.EmployeeID)
	if !ok {
		return false
	}

	updated := emp
	updated.Balance -= prev.Amount

	ok = s.mutate(ctx, "employee_tx",
		func() {
			store.DeleteEmployeeTransaction(txID)
			store.PutEmployee(updated)
		},
		func() {
			store.PutEmployeeTransaction(prev)
			store.PutEmployee(emp)
		},
		func(ctx context.Context) error { return s.remote.DeleteEmployeeTransaction(ctx, prev.TenantID, txID) },
	)
	if !ok {
		return false
	}

	s.persistOnly(ctx, "employee", func(ctx context.Context) error {
		return s.remote.UpdateEmployee(ctx, &updated)
	})
	return true
}
