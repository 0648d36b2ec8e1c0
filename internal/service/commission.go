package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// processCompletion runs the side effects of an order entering the
// completed status: inventory deduction, loyalty points, client visit
// bump, technician commission. The steps are independent and best-effort;
// each one is guarded by the processed-effects set so re-completing an
// order never applies an effect twice.
func (s *Session) processCompletion(ctx context.Context, w domain.WorkOrder) {
	ctx, span := actionTracer.Start(ctx, "Session.processCompletion")
	defer span.End()

	store := s.Store()
	if store == nil {
		return
	}
	settings := store.Tenant().Settings

	if store.MarkEffect(w.ID + ":stock") {
		for _, serviceID := range w.ServiceIDs {
			svc, ok := store.Service(serviceID)
			if !ok {
				continue
			}
			for _, c := range svc.Consumption {
				s.deductStock(ctx, c.ItemID, c.Quantity)
			}
		}
	}

	if settings.LoyaltyEnabled && w.ClientID != "" {
		s.creditServicePoints(ctx, w, settings)
	}

	if w.ClientID != "" {
		s.bumpClientVisit(ctx, w)
	}

	s.creditCommission(ctx, w, settings)
}

// creditServicePoints appends a service point entry worth
// floor(totalValue x multiplier).
func (s *Session) creditServicePoints(ctx context.Context, w domain.WorkOrder, settings domain.TenantSettings) {
	store := s.Store()

	points := int(math.Floor(w.TotalValue * settings.PointsMultiplier))
	if points <= 0 {
		return
	}
	if !store.MarkEffect(w.ID + ":points") {
		return
	}

	entry := domain.PointEntry{
		ID:          uuid.New().String(),
		TenantID:    w.TenantID,
		ClientID:    w.ClientID,
		Type:        domain.PointEntryService,
		Points:      points,
		Description: fmt.Sprintf("Ordem de serviço %s", w.ID),
		CreatedAt:   time.Now(),
	}

	ok := s.mutate(ctx, "point_entry",
		func() { store.PutPointEntry(entry) },
		func() { store.DeletePointEntry(entry.ID) },
		func(ctx context.Context) error { return s.remote.CreatePointEntry(ctx, &entry) },
	)
	if !ok {
		store.UnmarkEffect(w.ID + ":points")
	}
}

// bumpClientVisit advances the client's visit counters and LTV.
func (s *Session) bumpClientVisit(ctx context.Context, w domain.WorkOrder) {
	store := s.Store()

	prev, ok := store.Client(w.ClientID)
	if !ok {
		return
	}
	if !store.MarkEffect(w.ID + ":visit") {
		return
	}

	updated := prev
	updated.VisitCount++
	updated.LTV += w.TotalValue
	visitedAt := time.Now()
	if w.CompletedAt != nil {
		visitedAt = *w.CompletedAt
	}
	updated.LastVisit = &visitedAt
	updated.Derive(time.Now())

	ok = s.mutate(ctx, "client",
		func() { store.PutClient(updated) },
		func() { store.PutClient(prev) },
		func(ctx context.Context) error { return s.remote.UpdateClient(ctx, &updated) },
	)
	if !ok {
		store.UnmarkEffect(w.ID + ":visit")
	}
}

// creditCommission pays the assigned technician when their salary model
// includes commission. The basis is the order's gross value or, for the net
// model, the value minus the material cost of the consumed inventory.
func (s *Session) creditCommission(ctx context.Context, w domain.WorkOrder, settings domain.TenantSettings) {
	store := s.Store()

	if w.TechnicianID == "" {
		return
	}
	prevEmp, ok := store.Employee(w.TechnicianID)
	if !ok || !prevEmp.EarnsCommission() {
		return
	}

	basis := w.TotalValue
	if settings.CommissionBasis == domain.CommissionBasisNet {
		basis -= s.materialCost(w)
	}
	amount := prevEmp.CommissionRate / 100 * basis
	if amount <= 0 {
		return
	}
	if !store.MarkEffect(w.ID + ":commission") {
		return
	}

	tx := domain.EmployeeTransaction{
		ID:          uuid.New().String(),
		TenantID:    w.TenantID,
		EmployeeID:  prevEmp.ID,
		Type:        domain.EmployeeTxCommission,
		Amount:      amount,
		Description: fmt.Sprintf("Comissão da ordem %s", w.ID),
		Date:        time.Now(),
		WorkOrderID: w.ID,
	}

	updated := prevEmp
	updated.Balance += amount

	ok = s.mutate(ctx, "employee_tx",
		func() {
			store.PutEmployeeTransaction(tx)
			store.PutEmployee(updated)
		},
		func() {
			store.DeleteEmployeeTransaction(tx.ID)
			store.PutEmployee(prevEmp)
		},
		func(ctx context.Context) error { return s.remote.CreateEmployeeTransaction(ctx, &tx) },
	)
	if !ok {
		store.UnmarkEffect(w.ID + ":commission")
		return
	}

	s.persistOnly(ctx, "employee", func(ctx context.Context) error {
		return s.remote.UpdateEmployee(ctx, &updated)
	})
	s.logger.Info("commission credited",
		zap.String("order_id", w.ID),
		zap.String("employee_id", updated.ID),
		zap.Float64("amount", amount),
	)
}

// materialCost sums quantity x unit cost over the consumption lists of the
// order's services.
func (s *Session) materialCost(w domain.WorkOrder) float64 {
	store := s.Store()

	var cost float64
	for _, serviceID := range w.ServiceIDs {
		svc, ok := store.Service(serviceID)
		if !ok {
			continue
		}
		for _, c := range svc.Consumption {
			item, ok := store.InventoryItem(c.ItemID)
			if !ok {
				continue
			}
			cost += c.Quantity * item.UnitCost
		}
	}
	return cost
}
