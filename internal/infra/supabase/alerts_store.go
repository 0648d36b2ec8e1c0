package supabase

import (
	"context"
	"fmt"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
)

// ============================================================
// System alerts store
// ============================================================

func (c *Client) ListAlerts(ctx context.Context, tenantID string) ([]domain.SystemAlert, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListAlerts")
	defer span.End()

	path := fmt.Sprintf("system_alerts?tenant_id=eq.%s&resolved=eq.false&order=created_at.desc", tenantID)
	return fetchList[domain.SystemAlert](ctx, c, path)
}

func (c *Client) CreateAlert(ctx context.Context, a *domain.SystemAlert) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateAlert")
	defer span.End()

	_, err := insertOne(ctx, c, "system_alerts", *a)
	return err
}

func (c *Client) ResolveAlert(ctx context.Context, tenantID, alertID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.ResolveAlert")
	defer span.End()

	path := fmt.Sprintf("system_alerts?tenant_id=eq.%s&id=eq.%s", tenantID, alertID)
	return c.doPatch(ctx, path, map[string]any{"resolved": true})
}
