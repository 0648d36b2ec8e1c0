package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Heuristic assumptions of the scan. Capacity models a small shop with two
// technicians on a six-day week.
const (
	occupancyHorizon      = 7 * 24 * time.Hour
	capacityMinutes       = 2 * 8 * 60 * 6
	occupancyFloor        = 0.5
	idleHourlyRate        = 80.0
	inactivityWindow      = 60 * 24 * time.Hour
	inactiveClientMinimum = 5
	recoveryRate          = 0.10
	averageTicket         = 150.0
	revenueWindow         = 30 * 24 * time.Hour
	revenuePerHourFloor   = 100.0
)

// RunScan executes the three heuristics over a snapshot and persists the
// surviving candidates. An unresolved alert with the same type and message
// suppresses its candidate, so repeated scans never stack duplicates.
func (s *Session) RunScan(ctx context.Context) {
	ctx, span := actionTracer.Start(ctx, "Session.RunScan")
	defer span.End()

	store := s.Store()
	if store == nil {
		return
	}
	s.metrics.IncrScanRun()

	snap := store.Snapshot()
	now := time.Now()

	candidates := make([]domain.SystemAlert, 0, 3)
	if a, ok := OccupancyAlert(snap, now); ok {
		candidates = append(candidates, a)
	}
	if a, ok := InactiveClientsAlert(snap, now); ok {
		candidates = append(candidates, a)
	}
	if a, ok := RevenuePerHourAlert(snap, now); ok {
		candidates = append(candidates, a)
	}

	for _, candidate := range candidates {
		if store.HasUnresolvedAlert(candidate.Type, candidate.Message) {
			continue
		}

		alert := candidate
		alert.ID = uuid.New().String()
		alert.TenantID = snap.Tenant.ID
		alert.CreatedAt = now

		ok := s.mutate(ctx, "alert",
			func() { store.PutAlert(alert) },
			func() { store.DeleteAlert(alert.ID) },
			func(ctx context.Context) error { return s.remote.CreateAlert(ctx, &alert) },
		)
		if !ok {
			continue
		}
		s.metrics.IncrAlertEmitted(alert.Type)

		if alert.Level != domain.AlertLevelInfo && snap.Tenant.Settings.AlertPhone != "" {
			if err := s.notifier.Notify(ctx, snap.Tenant.Settings.AlertPhone, alert); err != nil {
				s.logger.Warn("alert notification failed",
					zap.String("alert_id", alert.ID),
					zap.Error(err),
				)
			}
		}
	}
}

// MarkAlertResolved removes an alert from the active set. Resolution is
// explicit; a stale alert is never cleared by a later scan.
func (s *Session) MarkAlertResolved(ctx context.Context, alertID string) bool {
	ctx, span := actionTracer.Start(ctx, "Session.MarkAlertResolved")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.Alert(alertID)
	if !ok || prev.Resolved {
		return false
	}

	resolved := prev
	resolved.Resolved = true

	return s.mutate(ctx, "alert",
		func() { store.PutAlert(resolved) },
		func() { store.PutAlert(prev) },
		func(ctx context.Context) error { return s.remote.ResolveAlert(ctx, prev.TenantID, alertID) },
	)
}

// OccupancyAlert sums expected service minutes of open orders deadlined
// within the next seven days against the assumed capacity. Below half
// occupancy it estimates the revenue lost to empty slots at a fixed hourly
// rate.
func OccupancyAlert(snap domain.Snapshot, now time.Time) (domain.SystemAlert, bool) {
	durations := make(map[string]int, len(snap.Services))
	for _, svc := range snap.Services {
		durations[svc.ID] = svc.DurationMinutes
	}

	horizon := now.Add(occupancyHorizon)
	var bookedMinutes int
	for _, w := range snap.WorkOrders {
		if w.IsTerminal() || w.Deadline == nil {
			continue
		}
		if w.Deadline.Before(now) || w.Deadline.After(horizon) {
			continue
		}
		for _, serviceID := range w.ServiceIDs {
			bookedMinutes += durations[serviceID]
		}
	}

	occupancy := float64(bookedMinutes) / capacityMinutes
	if occupancy >= occupancyFloor {
		return domain.SystemAlert{}, false
	}

	idleHours := float64(capacityMinutes-bookedMinutes) / 60
	return domain.SystemAlert{
		Type:            domain.AlertTypeAgenda,
		Level:           domain.AlertLevelWarning,
		Message:         fmt.Sprintf("Agenda dos próximos 7 dias com apenas %.0f%% de ocupação", occupancy*100),
		EstimatedImpact: idleHours * idleHourlyRate,
	}, true
}

// InactiveClientsAlert counts clients whose last visit is older than sixty
// days and estimates the recovery potential of winning a tenth of them back
// at the average ticket.
func InactiveClientsAlert(snap domain.Snapshot, now time.Time) (domain.SystemAlert, bool) {
	inactive := 0
	for _, c := range snap.Clients {
		if c.LastVisit != nil && now.Sub(*c.LastVisit) > inactivityWindow {
			inactive++
		}
	}
	if inactive <= inactiveClientMinimum {
		return domain.SystemAlert{}, false
	}

	return domain.SystemAlert{
		Type:            domain.AlertTypeClient,
		Level:           domain.AlertLevelWarning,
		Message:         fmt.Sprintf("%d clientes sem visita há mais de 60 dias", inactive),
		EstimatedImpact: float64(inactive) * recoveryRate * averageTicket,
	}, true
}

// RevenuePerHourAlert computes revenue divided by estimated service hours
// over the trailing thirty days of completed orders.
func RevenuePerHourAlert(snap domain.Snapshot, now time.Time) (domain.SystemAlert, bool) {
	durations := make(map[string]int, len(snap.Services))
	for _, svc := range snap.Services {
		durations[svc.ID] = svc.DurationMinutes
	}

	cutoff := now.Add(-revenueWindow)
	var revenue float64
	var minutes int
	for _, w := range snap.WorkOrders {
		if w.Status != domain.WorkOrderStatusCompleted || w.CompletedAt == nil {
			continue
		}
		if w.CompletedAt.Before(cutoff) {
			continue
		}
		revenue += w.TotalValue
		for _, serviceID := range w.ServiceIDs {
			minutes += durations[serviceID]
		}
	}
	if minutes == 0 {
		return domain.SystemAlert{}, false
	}

	perHour := revenue / (float64(minutes) / 60)
	if perHour >= revenuePerHourFloor {
		return domain.SystemAlert{}, false
	}

	return domain.SystemAlert{
		Type:    domain.AlertTypeFinance,
		Level:   domain.AlertLevelInfo,
		Message: fmt.Sprintf("Receita por hora trabalhada em R$ %.2f nos últimos 30 dias", perHour),
	}, true
}
