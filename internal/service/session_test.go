package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
	"github.com/bleinats/esteticacarro-core-go/internal/infra/cache"
	"github.com/bleinats/esteticacarro-core-go/internal/infra/notify"
	"github.com/bleinats/esteticacarro-core-go/internal/infra/observability"
	"github.com/bleinats/esteticacarro-core-go/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

var errRemote = errors.New("remote write refused")

// mockStore is a hand-rolled port.TenantStore. Writes succeed unless the
// method name is in fail; resolveDelay simulates a slow tenant query.
type mockStore struct {
	mu sync.Mutex

	tenant       *domain.Tenant
	resolveErrs  []error // consumed one per call, nil entries succeed
	resolveDelay time.Duration
	resolveCalls int

	fail  map[string]bool
	calls map[string]int

	clients     []domain.Client
	vehicles    []domain.Vehicle
	workOrders  []domain.WorkOrder
	inventory   []domain.InventoryItem
	services    []domain.ServiceCatalogItem
	employees   []domain.Employee
	employeeTxs []domain.EmployeeTransaction
	finance     []domain.FinancialTransaction
	rewards     []domain.Reward
	points      []domain.PointEntry
	redemptions []domain.Redemption
	alerts      []domain.SystemAlert
}

func newMockStore(tenant *domain.Tenant) *mockStore {
	return &mockStore{
		tenant: tenant,
		fail:   make(map[string]bool),
		calls:  make(map[string]int),
	}
}

func (m *mockStore) record(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[method]++
	if m.fail[method] {
		return errRemote
	}
	return nil
}

func (m *mockStore) callCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *mockStore) ResolveTenantByOwner(_ context.Context, _ string) (*domain.Tenant, error) {
	m.mu.Lock()
	call := m.resolveCalls
	m.resolveCalls++
	delay := m.resolveDelay
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if call < len(m.resolveErrs) && m.resolveErrs[call] != nil {
		return nil, m.resolveErrs[call]
	}
	return m.tenant, nil
}

func (m *mockStore) CreateTenant(_ context.Context, t *domain.Tenant) (*domain.Tenant, error) {
	if err := m.record("CreateTenant"); err != nil {
		return nil, err
	}
	created := *t
	created.ID = "tenant-created"
	m.mu.Lock()
	m.tenant = &created
	m.mu.Unlock()
	return &created, nil
}

func (m *mockStore) UpdateTenantSettings(_ context.Context, _ string, _ domain.TenantSettings) error {
	return m.record("UpdateTenantSettings")
}

func (m *mockStore) UpdateSubscription(_ context.Context, _ string, _ domain.Subscription) error {
	return m.record("UpdateSubscription")
}

func (m *mockStore) ListClients(_ context.Context, _ string) ([]domain.Client, error) {
	return m.clients, m.record("ListClients")
}
func (m *mockStore) CreateClient(_ context.Context, _ *domain.Client) error {
	return m.record("CreateClient")
}
func (m *mockStore) UpdateClient(_ context.Context, _ *domain.Client) error {
	return m.record("UpdateClient")
}
func (m *mockStore) DeleteClient(_ context.Context, _, _ string) error {
	return m.record("DeleteClient")
}

func (m *mockStore) ListVehicles(_ context.Context, _ string) ([]domain.Vehicle, error) {
	return m.vehicles, m.record("ListVehicles")
}
func (m *mockStore) CreateVehicle(_ context.Context, _ *domain.Vehicle) error {
	return m.record("CreateVehicle")
}
func (m *mockStore) UpdateVehicle(_ context.Context, _ *domain.Vehicle) error {
	return m.record("UpdateVehicle")
}
func (m *mockStore) DeleteVehicle(_ context.Context, _, _ string) error {
	return m.record("DeleteVehicle")
}

func (m *mockStore) ListWorkOrders(_ context.Context, _ string) ([]domain.WorkOrder, error) {
	return m.workOrders, m.record("ListWorkOrders")
}
func (m *mockStore) CreateWorkOrder(_ context.Context, _ *domain.WorkOrder) error {
	return m.record("CreateWorkOrder")
}
func (m *mockStore) UpdateWorkOrder(_ context.Context, _ *domain.WorkOrder) error {
	return m.record("UpdateWorkOrder")
}
func (m *mockStore) DeleteWorkOrder(_ context.Context, _, _ string) error {
	return m.record("DeleteWorkOrder")
}

func (m *mockStore) ListInventory(_ context.Context, _ string) ([]domain.InventoryItem, error) {
	return m.inventory, m.record("ListInventory")
}
func (m *mockStore) CreateInventoryItem(_ context.Context, _ *domain.InventoryItem) error {
	return m.record("CreateInventoryItem")
}
func (m *mockStore) UpdateInventoryItem(_ context.Context, _ *domain.InventoryItem) error {
	return m.record("UpdateInventoryItem")
}
func (m *mockStore) DeleteInventoryItem(_ context.Context, _, _ string) error {
	return m.record("DeleteInventoryItem")
}

func (m *mockStore) ListServices(_ context.Context, _ string) ([]domain.ServiceCatalogItem, error) {
	return m.services, m.record("ListServices")
}
func (m *mockStore) CreateService(_ context.Context, _ *domain.ServiceCatalogItem) error {
	return m.record("CreateService")
}
func (m *mockStore) UpdateService(_ context.Context, _ *domain.ServiceCatalogItem) error {
	return m.record("UpdateService")
}
func (m *mockStore) DeleteService(_ context.Context, _, _ string) error {
	return m.record("DeleteService")
}
func (m *mockStore) UpdateServicePrices(_ context.Context, _, _ string, _ []domain.PriceMatrixEntry) error {
	return m.record("UpdateServicePrices")
}

func (m *mockStore) ListEmployees(_ context.Context, _ string) ([]domain.Employee, error) {
	return m.employees, m.record("ListEmployees")
}
func (m *mockStore) CreateEmployee(_ context.Context, _ *domain.Employee) error {
	return m.record("CreateEmployee")
}
func (m *mockStore) UpdateEmployee(_ context.Context, _ *domain.Employee) error {
	return m.record("UpdateEmployee")
}
func (m *mockStore) DeleteEmployee(_ context.Context, _, _ string) error {
	return m.record("DeleteEmployee")
}

func (m *mockStore) ListEmployeeTransactions(_ context.Context, _ string) ([]domain.EmployeeTransaction, error) {
	return m.employeeTxs, m.record("ListEmployeeTransactions")
}
func (m *mockStore) CreateEmployeeTransaction(_ context.Context, _ *domain.EmployeeTransaction) error {
	return m.record("CreateEmployeeTransaction")
}
func (m *mockStore) UpdateEmployeeTransaction(_ context.Context, _ *domain.EmployeeTransaction) error {
	return m.record("UpdateEmployeeTransaction")
}
func (m *mockStore) DeleteEmployeeTransaction(_ context.Context, _, _ string) error {
	return m.record("DeleteEmployeeTransaction")
}

func (m *mockStore) ListFinanceEntries(_ context.Context, _ string) ([]domain.FinancialTransaction, error) {
	return m.finance, m.record("ListFinanceEntries")
}
func (m *mockStore) CreateFinanceEntry(_ context.Context, _ *domain.FinancialTransaction) error {
	return m.record("CreateFinanceEntry")
}
func (m *mockStore) DeleteFinanceEntry(_ context.Context, _ string, _ int64) error {
	return m.record("DeleteFinanceEntry")
}

func (m *mockStore) ListRewards(_ context.Context, _ string) ([]domain.Reward, error) {
	return m.rewards, m.record("ListRewards")
}
func (m *mockStore) ListPointEntries(_ context.Context, _ string) ([]domain.PointEntry, error) {
	return m.points, m.record("ListPointEntries")
}
func (m *mockStore) CreatePointEntry(_ context.Context, _ *domain.PointEntry) error {
	return m.record("CreatePointEntry")
}
func (m *mockStore) ListRedemptions(_ context.Context, _ string) ([]domain.Redemption, error) {
	return m.redemptions, m.record("ListRedemptions")
}
func (m *mockStore) CreateRedemption(_ context.Context, _ *domain.Redemption) error {
	return m.record("CreateRedemption")
}
func (m *mockStore) UpdateRedemption(_ context.Context, _ *domain.Redemption) error {
	return m.record("UpdateRedemption")
}

func (m *mockStore) ListAlerts(_ context.Context, _ string) ([]domain.SystemAlert, error) {
	return m.alerts, m.record("ListAlerts")
}
func (m *mockStore) CreateAlert(_ context.Context, _ *domain.SystemAlert) error {
	return m.record("CreateAlert")
}
func (m *mockStore) ResolveAlert(_ context.Context, _, _ string) error {
	return m.record("ResolveAlert")
}

// --- Helpers ---

func testTenant() *domain.Tenant {
	return &domain.Tenant{
		ID:      "tenant-1",
		OwnerID: "owner-1",
		Name:    "Estética Brilho",
		Settings: domain.TenantSettings{
			LoyaltyEnabled:   true,
			PointsMultiplier: 1,
			Tiers: []domain.LoyaltyTier{
				{Name: "bronze", MinPoints: 0},
				{Name: "silver", MinPoints: 500},
				{Name: "gold", MinPoints: 2000},
			},
			CommissionBasis: domain.CommissionBasisGross,
		},
	}
}

func testConfig() service.Config {
	return service.Config{
		AttemptTimeouts: []time.Duration{200 * time.Millisecond, 200 * time.Millisecond, 0},
		RetryDelay:      time.Millisecond,
		ScanDelay:       time.Hour, // keep the delayed scan out of test runs
		DebounceWindow:  20 * time.Millisecond,
	}
}

func newTestRegistry(remote *mockStore) *service.Registry {
	return service.NewRegistry(
		remote,
		notify.Noop{},
		cache.New[*domain.Tenant](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
		testConfig(),
	)
}

// readySession bootstraps a session against the mock until Ready.
func readySession(t *testing.T, remote *mockStore) *service.Session {
	t.Helper()
	registry := newTestRegistry(remote)
	sess, ok := registry.Bootstrap(context.Background(), domain.Identity{ID: "owner-1"})
	if !ok {
		t.Fatalf("bootstrap failed, state=%s", sess.State())
	}
	if sess.State() != domain.StateReady {
		t.Fatalf("expected Ready state, got %s", sess.State())
	}
	t.Cleanup(sess.Close)
	return sess
}

// --- Registry tests ---

func TestNewSession_LifecycleStates(t *testing.T) {
	remote := newMockStore(testTenant())
	sess := service.NewSession(
		domain.Identity{ID: "owner-1"},
		remote,
		notify.Noop{},
		cache.New[*domain.Tenant](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
		testConfig(),
	)

	// Identity verified, tenant not yet resolved.
	if sess.State() != domain.StateAuthenticating {
		t.Fatalf("expected Authenticating before bootstrap, got %s", sess.State())
	}

	if !sess.Bootstrap(context.Background()) {
		t.Fatal("bootstrap failed")
	}
	if sess.State() != domain.StateReady {
		t.Fatalf("expected Ready, got %s", sess.State())
	}

	sess.Close()
	if sess.State() != domain.StateUnauthenticated {
		t.Errorf("expected Unauthenticated after close, got %s", sess.State())
	}
}

func TestBootstrap_ConcurrentCallersShareOneResolution(t *testing.T) {
	remote := newMockStore(testTenant())
	remote.resolveDelay = 50 * time.Millisecond
	registry := newTestRegistry(remote)

	const callers = 5
	var wg sync.WaitGroup
	results := make([]bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = registry.Bootstrap(context.Background(), domain.Identity{ID: "owner-1"})
		}(i)
	}
	wg.Wait()

	for i, ok := range results {
		if !ok {
			t.Errorf("caller %d: bootstrap failed", i)
		}
	}

	remote.mu.Lock()
	calls := remote.resolveCalls
	remote.mu.Unlock()
	if calls != 1 {
		t.Errorf("expected 1 tenant resolution, got %d", calls)
	}
}

func TestSignOut_RemovesSession(t *testing.T) {
	remote := newMockStore(testTenant())
	registry := newTestRegistry(remote)

	sess, ok := registry.Bootstrap(context.Background(), domain.Identity{ID: "owner-1"})
	if !ok {
		t.Fatal("bootstrap failed")
	}

	registry.SignOut("owner-1")

	if _, found := registry.Session("owner-1"); found {
		t.Error("session still registered after sign-out")
	}
	if sess.Store() != nil {
		t.Error("store still reachable after sign-out")
	}
}
