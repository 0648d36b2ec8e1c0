package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
	"github.com/bleinats/esteticacarro-core-go/internal/infra/cache"
	"github.com/bleinats/esteticacarro-core-go/internal/infra/notify"
	"github.com/bleinats/esteticacarro-core-go/internal/infra/observability"
	"github.com/bleinats/esteticacarro-core-go/internal/service"

	"go.uber.org/zap"
)

func TestBootstrap_RetriesUntilResolutionSucceeds(t *testing.T) {
	remote := newMockStore(testTenant())
	remote.resolveErrs = []error{errRemote, errRemote, nil}
	registry := newTestRegistry(remote)

	sess, ok := registry.Bootstrap(context.Background(), domain.Identity{ID: "owner-1"})
	if !ok {
		t.Fatal("expected bootstrap to succeed after retries")
	}
	if sess.State() != domain.StateReady {
		t.Errorf("expected Ready, got %s", sess.State())
	}

	remote.mu.Lock()
	calls := remote.resolveCalls
	remote.mu.Unlock()
	if calls != 3 {
		t.Errorf("expected 3 resolution attempts, got %d", calls)
	}
}

func TestBootstrap_ExhaustedLadderFails(t *testing.T) {
	remote := newMockStore(testTenant())
	remote.resolveErrs = []error{errRemote, errRemote, errRemote}
	registry := newTestRegistry(remote)

	sess, ok := registry.Bootstrap(context.Background(), domain.Identity{ID: "owner-1"})
	if ok {
		t.Fatal("expected bootstrap to fail")
	}
	if sess.State() != domain.StateFailed {
		t.Errorf("expected Failed, got %s", sess.State())
	}
	if sess.Store() != nil {
		t.Error("failed session must not expose a store")
	}
}

func TestBootstrap_FinalAttemptOutwaitsSlowStore(t *testing.T) {
	remote := newMockStore(testTenant())
	remote.resolveDelay = 60 * time.Millisecond

	cfg := testConfig()
	// The store answers slower than the first two rungs allow; only the
	// unbounded last rung can wait it out.
	cfg.AttemptTimeouts = []time.Duration{10 * time.Millisecond, 10 * time.Millisecond, 0}

	registry := service.NewRegistry(
		remote,
		notify.Noop{},
		cache.New[*domain.Tenant](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
		cfg,
	)

	sess, ok := registry.Bootstrap(context.Background(), domain.Identity{ID: "owner-1"})
	if !ok || sess.State() != domain.StateReady {
		t.Fatalf("expected the last rung to succeed, got ok=%v state=%s", ok, sess.State())
	}

	remote.mu.Lock()
	calls := remote.resolveCalls
	remote.mu.Unlock()
	if calls != 3 {
		t.Errorf("expected 3 resolution attempts, got %d", calls)
	}
}

func TestBootstrap_NoTenantMeansNeedsOnboarding(t *testing.T) {
	remote := newMockStore(nil)
	registry := newTestRegistry(remote)

	sess, ok := registry.Bootstrap(context.Background(), domain.Identity{ID: "owner-1"})
	if !ok {
		t.Fatal("needs-onboarding is not a failure; expected ok")
	}
	if sess.State() != domain.StateNeedsOnboarding {
		t.Errorf("expected NeedsOnboarding, got %s", sess.State())
	}
	if sess.Store() != nil {
		t.Error("onboarding session must not expose a store")
	}
}

func TestBootstrap_CollectionLoadFailureFails(t *testing.T) {
	remote := newMockStore(testTenant())
	remote.fail["ListClients"] = true
	registry := newTestRegistry(remote)

	sess, ok := registry.Bootstrap(context.Background(), domain.Identity{ID: "owner-1"})
	if ok {
		t.Fatal("expected bootstrap to fail when a collection load fails")
	}
	if sess.State() != domain.StateFailed {
		t.Errorf("expected Failed, got %s", sess.State())
	}
}

func TestBootstrap_ReadySessionShortCircuits(t *testing.T) {
	remote := newMockStore(testTenant())
	registry := newTestRegistry(remote)

	if _, ok := registry.Bootstrap(context.Background(), domain.Identity{ID: "owner-1"}); !ok {
		t.Fatal("first bootstrap failed")
	}
	if _, ok := registry.Bootstrap(context.Background(), domain.Identity{ID: "owner-1"}); !ok {
		t.Fatal("second bootstrap failed")
	}

	remote.mu.Lock()
	calls := remote.resolveCalls
	remote.mu.Unlock()
	if calls != 1 {
		t.Errorf("ready session re-resolved the tenant: %d calls", calls)
	}
}

func TestCreateTenant_OnboardsAndReachesReady(t *testing.T) {
	remote := newMockStore(nil)
	registry := newTestRegistry(remote)

	sess, ok := registry.Bootstrap(context.Background(), domain.Identity{ID: "owner-1"})
	if !ok || sess.State() != domain.StateNeedsOnboarding {
		t.Fatalf("expected NeedsOnboarding, got ok=%v state=%s", ok, sess.State())
	}

	if !sess.CreateTenant(context.Background(), "Estética Nova", domain.TenantSettings{PointsMultiplier: 1}) {
		t.Fatal("tenant creation failed")
	}
	if sess.State() != domain.StateReady {
		t.Fatalf("expected Ready after onboarding, got %s", sess.State())
	}
	if got := sess.Store().Tenant().ID; got != "tenant-created" {
		t.Errorf("store holds wrong tenant: %s", got)
	}
	if remote.callCount("CreateTenant") != 1 {
		t.Errorf("expected 1 CreateTenant call, got %d", remote.callCount("CreateTenant"))
	}
}

func TestCreateTenant_RefusedOutsideOnboarding(t *testing.T) {
	remote := newMockStore(testTenant())
	sess := readySession(t, remote)

	if sess.CreateTenant(context.Background(), "Outra Loja", domain.TenantSettings{}) {
		t.Error("ready session must not create a second tenant")
	}
	if remote.callCount("CreateTenant") != 0 {
		t.Error("CreateTenant must not be called for a ready session")
	}
}
