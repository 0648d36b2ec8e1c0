package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
	"github.com/bleinats/esteticacarro-core-go/internal/infra/cache"
	"github.com/bleinats/esteticacarro-core-go/internal/infra/observability"
	"github.com/bleinats/esteticacarro-core-go/internal/service"

	"go.uber.org/zap"
)

type mockNotifier struct {
	mu     sync.Mutex
	phones []string
	alerts []domain.SystemAlert
}

func (m *mockNotifier) Notify(_ context.Context, phone string, alert domain.SystemAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phones = append(m.phones, phone)
	m.alerts = append(m.alerts, alert)
	return nil
}

func TestOccupancyAlert_EmptyAgendaFiresWarning(t *testing.T) {
	snap := domain.Snapshot{Tenant: *testTenant()}
	now := time.Now()

	alert, ok := service.OccupancyAlert(snap, now)
	if !ok {
		t.Fatal("expected an alert for an empty agenda")
	}
	if alert.Type != domain.AlertTypeAgenda || alert.Level != domain.AlertLevelWarning {
		t.Errorf("unexpected alert: type=%q level=%q", alert.Type, alert.Level)
	}
	// Full capacity idle: 96 hours at the assumed hourly rate.
	if alert.EstimatedImpact != 7680 {
		t.Errorf("expected impact 7680, got %.2f", alert.EstimatedImpact)
	}
}

func TestOccupancyAlert_HealthyAgendaStaysQuiet(t *testing.T) {
	now := time.Now()
	deadline := now.Add(3 * 24 * time.Hour)
	snap := domain.Snapshot{
		Tenant:   *testTenant(),
		Services: []domain.ServiceCatalogItem{{ID: "svc1", DurationMinutes: 2880}},
		WorkOrders: []domain.WorkOrder{{
			ID: "wo1", Status: domain.WorkOrderStatusInProgress,
			Deadline: &deadline, ServiceIDs: []string{"svc1"},
		}},
	}

	if _, ok := service.OccupancyAlert(snap, now); ok {
		t.Error("half-booked agenda must not alert")
	}
}

func TestInactiveClientsAlert_CountsBeyondMinimum(t *testing.T) {
	now := time.Now()
	old := now.Add(-70 * 24 * time.Hour)
	snap := domain.Snapshot{Tenant: *testTenant()}
	for i := 0; i < 6; i++ {
		snap.Clients = append(snap.Clients, domain.Client{ID: "c", LastVisit: &old})
	}

	alert, ok := service.InactiveClientsAlert(snap, now)
	if !ok {
		t.Fatal("expected an alert for 6 inactive clients")
	}
	if alert.Message != "6 clientes sem visita há mais de 60 dias" {
		t.Errorf("unexpected message: %q", alert.Message)
	}
	// 6 clients x 10% recovery x average ticket 150.
	if alert.EstimatedImpact != 90 {
		t.Errorf("expected impact 90, got %.2f", alert.EstimatedImpact)
	}

	snap.Clients = snap.Clients[:5]
	if _, ok := service.InactiveClientsAlert(snap, now); ok {
		t.Error("5 inactive clients is at the minimum and must not alert")
	}
}

func TestRevenuePerHourAlert_LowRevenueFiresInfo(t *testing.T) {
	now := time.Now()
	completed := now.Add(-10 * 24 * time.Hour)
	snap := domain.Snapshot{
		Tenant:   *testTenant(),
		Services: []domain.ServiceCatalogItem{{ID: "svc1", DurationMinutes: 60}},
		WorkOrders: []domain.WorkOrder{{
			ID: "wo1", Status: domain.WorkOrderStatusCompleted,
			CompletedAt: &completed, TotalValue: 50, ServiceIDs: []string{"svc1"},
		}},
	}

	alert, ok := service.RevenuePerHourAlert(snap, now)
	if !ok {
		t.Fatal("expected an alert for R$ 50/h")
	}
	if alert.Type != domain.AlertTypeFinance || alert.Level != domain.AlertLevelInfo {
		t.Errorf("unexpected alert: type=%q level=%q", alert.Type, alert.Level)
	}
}

func TestRevenuePerHourAlert_NoCompletedWorkStaysQuiet(t *testing.T) {
	snap := domain.Snapshot{Tenant: *testTenant()}
	if _, ok := service.RevenuePerHourAlert(snap, time.Now()); ok {
		t.Error("no completed minutes means no ratio to alert on")
	}
}

func TestRunScan_SuppressesDuplicateUnresolvedAlerts(t *testing.T) {
	remote := newMockStore(testTenant())
	sess := readySession(t, remote)

	sess.RunScan(context.Background())
	sess.RunScan(context.Background())

	// An empty store trips only the occupancy heuristic, and only once.
	alerts := sess.Store().Alerts()
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Type != domain.AlertTypeAgenda {
		t.Errorf("expected agenda alert, got %q", alerts[0].Type)
	}
	if remote.callCount("CreateAlert") != 1 {
		t.Errorf("expected 1 CreateAlert call, got %d", remote.callCount("CreateAlert"))
	}
}

func TestRunScan_NotifiesWarningsWhenPhoneConfigured(t *testing.T) {
	tenant := testTenant()
	tenant.Settings.AlertPhone = "+5511999990000"
	remote := newMockStore(tenant)
	notifier := &mockNotifier{}

	registry := service.NewRegistry(
		remote,
		notifier,
		cache.New[*domain.Tenant](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
		testConfig(),
	)
	sess, ok := registry.Bootstrap(context.Background(), domain.Identity{ID: "owner-1"})
	if !ok {
		t.Fatal("bootstrap failed")
	}
	t.Cleanup(sess.Close)

	sess.RunScan(context.Background())

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.alerts) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.alerts))
	}
	if notifier.phones[0] != "+5511999990000" {
		t.Errorf("notified wrong phone: %q", notifier.phones[0])
	}
	if notifier.alerts[0].Level != domain.AlertLevelWarning {
		t.Errorf("only non-info alerts notify, got %q", notifier.alerts[0].Level)
	}
}

func TestMarkAlertResolved_OneWay(t *testing.T) {
	remote := newMockStore(testTenant())
	remote.alerts = []domain.SystemAlert{{
		ID: "a1", TenantID: "tenant-1", Type: domain.AlertTypeClient,
		Message: "teste", Level: domain.AlertLevelWarning,
	}}
	sess := readySession(t, remote)

	if !sess.MarkAlertResolved(context.Background(), "a1") {
		t.Fatal("expected resolution to succeed")
	}
	if sess.MarkAlertResolved(context.Background(), "a1") {
		t.Error("an already-resolved alert must be refused")
	}

	got, _ := sess.Store().Alert("a1")
	if !got.Resolved {
		t.Error("alert not marked resolved in the store")
	}
	if remote.callCount("ResolveAlert") != 1 {
		t.Errorf("expected 1 ResolveAlert call, got %d", remote.callCount("ResolveAlert"))
	}
}
