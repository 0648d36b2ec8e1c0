package service

import (
	"context"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
)

// AddFinanceEntry appends a shop-level income/expense entry. IDs come from
// the finance ledger's own numeric sequence.
func (s *Session) AddFinanceEntry(ctx context.Context, t domain.FinancialTransaction) (*domain.FinancialTransaction, bool) {
	ctx, span := actionTracer.Start(ctx, "Session.AddFinanceEntry")
	defer span.End()

	store := s.Store()
	if store == nil {
		return nil, false
	}
	if t.Type != "income" && t.Type != "expense" {
		return nil, false
	}

	t.ID = store.NextFinanceID()
	t.TenantID = store.Tenant().ID
	if t.Date.IsZero() {
		t.Date = time.Now()
	}

	ok := s.mutate(ctx, "finance",
		func() { store.PutFinanceEntry(t) },
		func() { store.DeleteFinanceEntry(t.ID) },
		func(ctx context.Context) error { return s.remote.CreateFinanceEntry(ctx, &t) },
	)
	if !ok {
		return nil, false
	}
	return &t, true
}

// DeleteFinanceEntry removes a ledger entry.
func (s *Session) DeleteFinanceEntry(ctx context.Context, entryID int64) bool {
	ctx, span := actionTracer.Start(ctx, "Session.DeleteFinanceEntry")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.FinanceEntry(entryID)
	if !ok {
		return false
	}

	return s.mutate(ctx, "finance",
		func() { store.DeleteFinanceEntry(entryID) },
		func() { store.PutFinanceEntry(prev) },
		func(ctx context.Context) error { return s.remote.DeleteFinanceEntry(ctx, prev.TenantID, entryID) },
	)
}
