// Package service provides the business logic layer: the tenant session and
// its action surface. A Session owns the entity store of exactly one tenant
// and is the only writer to it; the Registry hands sessions out per
// authenticated identity and coalesces concurrent bootstraps.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
	"github.com/bleinats/esteticacarro-core-go/internal/infra/observability"
	"github.com/bleinats/esteticacarro-core-go/internal/port"
	"github.com/bleinats/esteticacarro-core-go/internal/state"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Config holds the session timing knobs. The defaults mirror production
// behavior; tests shrink them.
type Config struct {
	// AttemptTimeouts caps how long each tenant-resolution attempt may
	// wait. A zero entry lets the remote call complete naturally.
	AttemptTimeouts []time.Duration
	// RetryDelay is the base inter-attempt wait; attempt n waits n times it.
	RetryDelay time.Duration
	// ScanDelay defers the first intelligence scan after bootstrap so the
	// caller is not blocked behind heuristic computation.
	ScanDelay time.Duration
	// DebounceWindow is the quiet period of the batched price writer.
	DebounceWindow time.Duration
}

// DefaultConfig returns the production timings.
func DefaultConfig() Config {
	return Config{
		AttemptTimeouts: []time.Duration{10 * time.Second, 30 * time.Second, 0},
		RetryDelay:      2 * time.Second,
		ScanDelay:       5 * time.Second,
		DebounceWindow:  time.Second,
	}
}

// Session is one live tenant session: the entity store plus every action
// the UI layer can invoke.
type Session struct {
	identity domain.Identity
	remote   port.TenantStore
	notifier port.AlertNotifier
	tenants  port.Cache[*domain.Tenant]
	metrics  *observability.Metrics
	logger   *zap.Logger
	cfg      Config

	mu        sync.RWMutex
	bootState domain.BootstrapState
	store     *state.Store
	scanTimer *time.Timer

	prices *priceDebouncer
}

// NewSession creates an unresolved session for an identity. A session only
// exists for a verified identity, so it is born Authenticating; Bootstrap
// advances it and Close drops it back to Unauthenticated.
func NewSession(identity domain.Identity, remote port.TenantStore, notifier port.AlertNotifier, tenants port.Cache[*domain.Tenant], metrics *observability.Metrics, logger *zap.Logger, cfg Config) *Session {
	s := &Session{
		identity:  identity,
		remote:    remote,
		notifier:  notifier,
		tenants:   tenants,
		metrics:   metrics,
		logger:    logger.With(zap.String("identity_id", identity.ID)),
		cfg:       cfg,
		bootState: domain.StateAuthenticating,
	}
	s.prices = newPriceDebouncer(s, cfg.DebounceWindow)
	return s
}

// Identity returns the authenticated identity of this session.
func (s *Session) Identity() domain.Identity { return s.identity }

// State returns the current bootstrap state.
func (s *Session) State() domain.BootstrapState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bootState
}

func (s *Session) setState(st domain.BootstrapState) {
	s.mu.Lock()
	s.bootState = st
	s.mu.Unlock()
}

// Store returns the entity store, or nil while the session is not Ready.
func (s *Session) Store() *state.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bootState != domain.StateReady {
		return nil
	}
	return s.store
}

// Close tears the session down: pending debounce flushes are dropped and
// the scheduled scan is cancelled. The store is released so nothing of this
// tenant stays visible.
func (s *Session) Close() {
	s.prices.stop()
	s.mu.Lock()
	if s.scanTimer != nil {
		s.scanTimer.Stop()
		s.scanTimer = nil
	}
	s.store = nil
	s.bootState = domain.StateUnauthenticated
	s.mu.Unlock()
}

// Registry maps identities to live sessions. Concurrent bootstrap requests
// for the same identity share a single in-flight attempt.
type Registry struct {
	remote   port.TenantStore
	notifier port.AlertNotifier
	tenants  port.Cache[*domain.Tenant]
	metrics  *observability.Metrics
	logger   *zap.Logger
	cfg      Config

	flight   singleflight.Group
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry(remote port.TenantStore, notifier port.AlertNotifier, tenants port.Cache[*domain.Tenant], metrics *observability.Metrics, logger *zap.Logger, cfg Config) *Registry {
	return &Registry{
		remote:   remote,
		notifier: notifier,
		tenants:  tenants,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Session returns the live session of an identity, if any.
func (r *Registry) Session(identityID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[identityID]
	return s, ok
}

func (r *Registry) getOrCreate(identity domain.Identity) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[identity.ID]; ok {
		return s
	}
	s := NewSession(identity, r.remote, r.notifier, r.tenants, r.metrics, r.logger, r.cfg)
	r.sessions[identity.ID] = s
	return s
}

type bootstrapOutcome struct {
	session *Session
	ok      bool
}

// Bootstrap resolves an identity to its tenant session. Concurrent callers
// for the same identity join the in-flight resolution instead of issuing
// duplicate remote queries; all receive the first caller's result.
func (r *Registry) Bootstrap(ctx context.Context, identity domain.Identity) (*Session, bool) {
	v, _, shared := r.flight.Do(identity.ID, func() (any, error) {
		sess := r.getOrCreate(identity)
		if sess.State() == domain.StateReady {
			return bootstrapOutcome{session: sess, ok: true}, nil
		}
		ok := sess.Bootstrap(ctx)
		return bootstrapOutcome{session: sess, ok: ok}, nil
	})
	if shared {
		r.metrics.IncrBootstrapCoalesced()
	}

	out := v.(bootstrapOutcome)
	return out.session, out.ok
}

// SignOut closes and removes the identity's session and forgets its cached
// tenant resolution.
func (r *Registry) SignOut(identityID string) {
	r.mu.Lock()
	s, ok := r.sessions[identityID]
	delete(r.sessions, identityID)
	r.mu.Unlock()

	if ok {
		s.Close()
		r.tenants.Delete(tenantCacheKey(identityID))
		r.logger.Info("session closed", zap.String("identity_id", identityID))
	}
}

// ScanAll runs the intelligence scan on every ready session. Wired to the
// cron scheduler.
func (r *Registry) ScanAll(ctx context.Context) {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		if s.State() == domain.StateReady {
			s.RunScan(ctx)
		}
	}
}

func tenantCacheKey(ownerID string) string { return "tenant:" + ownerID }
