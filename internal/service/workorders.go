package service

import (
	"context"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"

	"github.com/google/uuid"
)

// AddWorkOrder creates a work order.
func (s *Session) AddWorkOrder(ctx context.Context, w domain.WorkOrder) (*domain.WorkOrder, bool) {
	ctx, span := actionTracer.Start(ctx, "Session.AddWorkOrder")
	defer span.End()

	store := s.Store()
	if store == nil {
		return nil, false
	}

	w.ID = uuid.New().String()
	w.TenantID = store.Tenant().ID
	w.CreatedAt = time.Now()
	if w.Status == "" {
		w.Status = domain.WorkOrderStatusQuote
	}
	if w.PaymentStatus == "" {
		w.PaymentStatus = domain.PaymentStatusPending
	}

	ok := s.mutate(ctx, "work_order",
		func() { store.PutWorkOrder(w) },
		func() { store.DeleteWorkOrder(w.ID) },
		func(ctx context.Context) error { return s.remote.CreateWorkOrder(ctx, &w) },
	)
	if !ok {
		return nil, false
	}
	return &w, true
}

// UpdateWorkOrder replaces a work order. When the update moves the order
// into the terminal completed status, the completion side effects (stock,
// points, visit, commission) run afterwards — each once per order.
func (s *Session) UpdateWorkOrder(ctx context.Context, w domain.WorkOrder) bool {
	ctx, span := actionTracer.Start(ctx, "Session.UpdateWorkOrder")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.WorkOrder(w.ID)
	if !ok {
		return false
	}
	w.TenantID = prev.TenantID
	w.CreatedAt = prev.CreatedAt

	completing := prev.Status != domain.WorkOrderStatusCompleted && w.Status == domain.WorkOrderStatusCompleted
	if completing && w.CompletedAt == nil {
		now := time.Now()
		w.CompletedAt = &now
	}

	persisted := s.mutate(ctx, "work_order",
		func() { store.PutWorkOrder(w) },
		func() { store.PutWorkOrder(prev) },
		func(ctx context.Context) error { return s.remote.UpdateWorkOrder(ctx, &w) },
	)
	if !persisted {
		return false
	}

	if completing {
		s.processCompletion(ctx, w)
	}
	return true
}

// CompleteWorkOrder marks an order as completed, triggering the completion
// side effects.
func (s *Session) CompleteWorkOrder(ctx context.Context, orderID string) bool {
	store := s.Store()
	if store == nil {
		return false
	}

	w, ok := store.WorkOrder(orderID)
	if !ok || w.IsTerminal() {
		return false
	}
	w.Status = domain.WorkOrderStatusCompleted
	return s.UpdateWorkOrder(ctx, w)
}

// DeleteWorkOrder removes a work order.
func (s *Session) DeleteWorkOrder(ctx context.Context, orderID string) bool {
	ctx, span := actionTracer.Start(ctx, "Session.DeleteWorkOrder")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.WorkOrder(orderID)
	if !ok {
		return false
	}

	return s.mutate(ctx, "work_order",
		func() { store.DeleteWorkOrder(orderID) },
		func() { store.PutWorkOrder(prev) },
		func(ctx context.Context) error { return s.remote.DeleteWorkOrder(ctx, prev.TenantID, orderID) },
	)
}
