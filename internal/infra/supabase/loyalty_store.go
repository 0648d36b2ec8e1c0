package supabase

import (
	"context"
	"fmt"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
)

// ============================================================
// Loyalty store — rewards, point ledger, redemptions
// ============================================================

func (c *Client) ListRewards(ctx context.Context, tenantID string) ([]domain.Reward, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListRewards")
	defer span.End()

	path := fmt.Sprintf("rewards?tenant_id=eq.%s", tenantID)
	return fetchList[domain.Reward](ctx, c, path)
}

func (c *Client) ListPointEntries(ctx context.Context, tenantID string) ([]domain.PointEntry, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListPointEntries")
	defer span.End()

	path := fmt.Sprintf("point_entries?tenant_id=eq.%s&order=created_at.desc", tenantID)
	return fetchList[domain.PointEntry](ctx, c, path)
}

func (c *Client) CreatePointEntry(ctx context.Context, e *domain.PointEntry) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreatePointEntry")
	defer span.End()

	_, err := insertOne(ctx, c, "point_entries", *e)
	return err
}

func (c *Client) ListRedemptions(ctx context.Context, tenantID string) ([]domain.Redemption, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListRedemptions")
	defer span.End()

	path := fmt.Sprintf("redemptions?tenant_id=eq.%s&order=created_at.desc", tenantID)
	return fetchList[domain.Redemption](ctx, c, path)
}

func (c *Client) CreateRedemption(ctx context.Context, r *domain.Redemption) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateRedemption")
	defer span.End()

	_, err := insertOne(ctx, c, "redemptions", *r)
	return err
}

func (c *Client) UpdateRedemption(ctx context.Context, r *domain.Redemption) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateRedemption")
	defer span.End()

	path := fmt.Sprintf("redemptions?tenant_id=eq.%s&id=eq.%s", r.TenantID, r.ID)
	return c.doPatch(ctx, path, r)
}
