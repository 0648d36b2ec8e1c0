package supabase

import (
	"context"
	"fmt"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
)

// ============================================================
// Clients and vehicles store
// ============================================================

// ListClients loads all clients of a tenant. Derived status/segment fields
// are recomputed here on every load; the columns are never the source of
// truth.
func (c *Client) ListClients(ctx context.Context, tenantID string) ([]domain.Client, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListClients")
	defer span.End()

	path := fmt.Sprintf("clients?tenant_id=eq.%s&order=created_at.desc", tenantID)
	rows, err := fetchList[domain.Client](ctx, c, path)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range rows {
		rows[i].Derive(now)
	}
	return rows, nil
}

func (c *Client) CreateClient(ctx context.Context, cl *domain.Client) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateClient")
	defer span.End()

	_, err := insertOne(ctx, c, "clients", *cl)
	return err
}

func (c *Client) UpdateClient(ctx context.Context, cl *domain.Client) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateClient")
	defer span.End()

	path := fmt.Sprintf("clients?tenant_id=eq.%s&id=eq.%s", cl.TenantID, cl.ID)
	return c.doPatch(ctx, path, cl)
}

func (c *Client) DeleteClient(ctx context.Context, tenantID, clientID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteClient")
	defer span.End()

	path := fmt.Sprintf("clients?tenant_id=eq.%s&id=eq.%s", tenantID, clientID)
	return c.doDelete(ctx, path)
}

func (c *Client) ListVehicles(ctx context.Context, tenantID string) ([]domain.Vehicle, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListVehicles")
	defer span.End()

	path := fmt.Sprintf("vehicles?tenant_id=eq.%s", tenantID)
	return fetchList[domain.Vehicle](ctx, c, path)
}

func (c *Client) CreateVehicle(ctx context.Context, v *domain.Vehicle) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateVehicle")
	defer span.End()

	_, err := insertOne(ctx, c, "vehicles", *v)
	return err
}

func (c *Client) UpdateVehicle(ctx context.Context, v *domain.Vehicle) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateVehicle")
	defer span.End()

	path := fmt.Sprintf("vehicles?tenant_id=eq.%s&id=eq.%s", v.TenantID, v.ID)
	return c.doPatch(ctx, path, v)
}

func (c *Client) DeleteVehicle(ctx context.Context, tenantID, vehicleID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteVehicle")
	defer span.End()

	path := fmt.Sprintf("vehicles?tenant_id=eq.%s&id=eq.%s", tenantID, vehicleID)
	return c.doDelete(ctx, path)
}
