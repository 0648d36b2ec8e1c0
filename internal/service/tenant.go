package service

import (
	"context"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
)

// UpdateSettings replaces the tenant's nested settings document.
func (s *Session) UpdateSettings(ctx context.Context, settings domain.TenantSettings) bool {
	ctx, span := actionTracer.Start(ctx, "Session.UpdateSettings")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev := store.Tenant()
	updated := prev
	updated.Settings = settings

	ok := s.mutate(ctx, "tenant",
		func() { store.SetTenant(updated) },
		func() { store.SetTenant(prev) },
		func(ctx context.Context) error {
			return s.remote.UpdateTenantSettings(ctx, prev.ID, settings)
		},
	)
	if ok {
		// The cached resolution would otherwise serve stale settings on the
		// next bootstrap.
		s.tenants.Delete(tenantCacheKey(s.identity.ID))
	}
	return ok
}

// UpdateSubscription replaces the tenant's plan document.
func (s *Session) UpdateSubscription(ctx context.Context, sub domain.Subscription) bool {
	ctx, span := actionTracer.Start(ctx, "Session.UpdateSubscription")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev := store.Tenant()
	updated := prev
	updated.Subscription = sub

	ok := s.mutate(ctx, "tenant",
		func() { store.SetTenant(updated) },
		func() { store.SetTenant(prev) },
		func(ctx context.Context) error {
			return s.remote.UpdateSubscription(ctx, prev.ID, sub)
		},
	)
	if ok {
		s.tenants.Delete(tenantCacheKey(s.identity.ID))
	}
	return ok
}
