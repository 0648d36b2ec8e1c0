package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
	"github.com/bleinats/esteticacarro-core-go/internal/infra/resilience"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Tenant store — resolution, creation, settings, subscription
// ============================================================

// ResolveTenantByOwner finds the tenant owned by an identity. A missing row
// is not an error: it returns (nil, nil) and signals onboarding.
func (c *Client) ResolveTenantByOwner(ctx context.Context, ownerID string) (*domain.Tenant, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ResolveTenantByOwner")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", ownerID))

	var tenant *domain.Tenant

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("tenants?owner_id=eq.%s&limit=1", ownerID)
			body, err := c.doGet(ctx, path)
			if err != nil {
				return err
			}
			if body == nil || string(body) == "[]" {
				tenant = nil
				return nil
			}

			var rows []domain.Tenant
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("decode tenant: %w", err)
			}
			if len(rows) == 0 {
				tenant = nil
				return nil
			}
			tenant = &rows[0]
			return nil
		})
	})
	if err != nil {
		var open *domain.ErrCircuitOpen
		if wrapped := breakerErr("supabase/tenants", err); errors.As(wrapped, &open) {
			return nil, wrapped
		}
		return nil, &domain.ErrExternalService{Service: "supabase/tenants", Err: err}
	}
	return tenant, nil
}

// CreateTenant inserts the tenant row during onboarding.
func (c *Client) CreateTenant(ctx context.Context, t *domain.Tenant) (*domain.Tenant, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateTenant")
	defer span.End()

	created, err := insertOne(ctx, c, "tenants", *t)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTenantSettings writes the nested settings document.
func (c *Client) UpdateTenantSettings(ctx context.Context, tenantID string, settings domain.TenantSettings) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateTenantSettings")
	defer span.End()

	path := fmt.Sprintf("tenants?id=eq.%s", tenantID)
	return c.doPatch(ctx, path, map[string]any{"settings": settings})
}

// UpdateSubscription writes the nested subscription document.
func (c *Client) UpdateSubscription(ctx context.Context, tenantID string, sub domain.Subscription) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateSubscription")
	defer span.End()

	path := fmt.Sprintf("tenants?id=eq.%s", tenantID)
	return c.doPatch(ctx, path, map[string]any{"subscription": sub})
}

// Ping checks connectivity for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doGet(ctx, "tenants?limit=1")
	return err
}
