package service

import (
	"context"
	"strconv"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
	"github.com/bleinats/esteticacarro-core-go/internal/infra/resilience"
	"github.com/bleinats/esteticacarro-core-go/internal/state"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var bootTracer = otel.Tracer("service/bootstrap")

// Bootstrap resolves the session's identity to its tenant and populates the
// entity store. It returns false only on Failed; an identity without a
// tenant is the NeedsOnboarding terminal state and still returns true so
// the caller can proceed to tenant creation. Errors never escape.
func (s *Session) Bootstrap(ctx context.Context) bool {
	ctx, span := bootTracer.Start(ctx, "Session.Bootstrap")
	defer span.End()
	span.SetAttributes(attribute.String("identity.id", s.identity.ID))

	s.setState(domain.StateTenantResolving)

	tenant, ok := s.resolveTenant(ctx)
	if !ok {
		s.setState(domain.StateFailed)
		s.metrics.IncrBootstrapOutcome("failed")
		s.logger.Error("bootstrap failed: tenant resolution exhausted")
		return false
	}

	if tenant == nil {
		s.setState(domain.StateNeedsOnboarding)
		s.metrics.IncrBootstrapOutcome("needs_onboarding")
		s.logger.Info("bootstrap: identity has no tenant yet")
		return true
	}

	store := state.New(*tenant)
	if err := s.loadCollections(ctx, store); err != nil {
		s.setState(domain.StateFailed)
		s.metrics.IncrBootstrapOutcome("failed")
		s.logger.Error("bootstrap failed: collection load", zap.Error(err))
		return false
	}

	s.mu.Lock()
	s.store = store
	s.bootState = domain.StateReady
	// The first scan runs after a fixed delay, decoupled from resolution.
	s.scanTimer = time.AfterFunc(s.cfg.ScanDelay, func() {
		s.RunScan(context.Background())
	})
	s.mu.Unlock()

	s.metrics.IncrBootstrapOutcome("ready")
	s.logger.Info("bootstrap ready",
		zap.String("tenant_id", tenant.ID),
		zap.String("tenant_name", tenant.Name),
	)
	return true
}

// resolveTenant runs the retry ladder: each attempt races the remote query
// against its timeout (the last attempt waits unboundedly), and failed
// attempts wait RetryDelay × attempt before retrying. A (nil, true) return
// means the identity has no tenant.
func (s *Session) resolveTenant(ctx context.Context) (*domain.Tenant, bool) {
	if cached, ok := s.tenants.Get(tenantCacheKey(s.identity.ID)); ok {
		s.metrics.IncrCacheHit("tenant")
		return cached, true
	}
	s.metrics.IncrCacheMiss("tenant")

	attempts := len(s.cfg.AttemptTimeouts)
	for attempt := 1; attempt <= attempts; attempt++ {
		s.metrics.IncrBootstrapAttempt(strconv.Itoa(attempt))

		var tenant *domain.Tenant
		err := resilience.Race("tenant resolution", s.cfg.AttemptTimeouts[attempt-1], func() error {
			t, err := s.remote.ResolveTenantByOwner(ctx, s.identity.ID)
			if err != nil {
				return err
			}
			tenant = t
			return nil
		})
		if err == nil {
			if tenant != nil {
				s.tenants.Set(tenantCacheKey(s.identity.ID), tenant)
			}
			return tenant, true
		}

		s.logger.Warn("tenant resolution attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < attempts {
			wait := s.cfg.RetryDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return nil, false
			case <-time.After(wait):
			}
		}
	}
	return nil, false
}

// loadCollections fills the store with every collection of the tenant.
// Loads run concurrently; the store is not published until all succeed.
func (s *Session) loadCollections(ctx context.Context, store *state.Store) error {
	ctx, span := bootTracer.Start(ctx, "Session.loadCollections")
	defer span.End()

	tenantID := store.Tenant().ID
	var cols state.Collections

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		cols.Clients, err = s.remote.ListClients(gCtx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		cols.Vehicles, err = s.remote.ListVehicles(gCtx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		cols.WorkOrders, err = s.remote.ListWorkOrders(gCtx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		cols.InventoryItems, err = s.remote.ListInventory(gCtx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		cols.Services, err = s.remote.ListServices(gCtx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		cols.Employees, err = s.remote.ListEmployees(gCtx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		cols.EmployeeTransactions, err = s.remote.ListEmployeeTransactions(gCtx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		cols.FinanceEntries, err = s.remote.ListFinanceEntries(gCtx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		cols.Rewards, err = s.remote.ListRewards(gCtx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		cols.PointEntries, err = s.remote.ListPointEntries(gCtx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		cols.Redemptions, err = s.remote.ListRedemptions(gCtx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		cols.Alerts, err = s.remote.ListAlerts(gCtx, tenantID)
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	store.Populate(cols)
	return nil
}

// CreateTenant provisions the tenant during onboarding and re-runs the
// bootstrap so the session ends up Ready.
func (s *Session) CreateTenant(ctx context.Context, name string, settings domain.TenantSettings) bool {
	if s.State() != domain.StateNeedsOnboarding {
		return false
	}

	tenant := &domain.Tenant{
		OwnerID:  s.identity.ID,
		Name:     name,
		Settings: settings,
		Subscription: domain.Subscription{
			Plan:   "trial",
			Status: "active",
		},
		CreatedAt: time.Now(),
	}

	created, err := s.remote.CreateTenant(ctx, tenant)
	if err != nil {
		s.metrics.IncrPersistenceFailure("tenant")
		s.logger.Error("tenant creation failed", zap.Error(err))
		return false
	}

	s.tenants.Set(tenantCacheKey(s.identity.ID), created)
	return s.Bootstrap(ctx)
}
