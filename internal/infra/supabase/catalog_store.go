package supabase

import (
	"context"
	"fmt"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"
)

// ============================================================
// Service catalog and inventory store
// ============================================================

func (c *Client) ListServices(ctx context.Context, tenantID string) ([]domain.ServiceCatalogItem, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListServices")
	defer span.End()

	path := fmt.Sprintf("services?tenant_id=eq.%s", tenantID)
	return fetchList[domain.ServiceCatalogItem](ctx, c, path)
}

func (c *Client) CreateService(ctx context.Context, s *domain.ServiceCatalogItem) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateService")
	defer span.End()

	_, err := insertOne(ctx, c, "services", *s)
	return err
}

func (c *Client) UpdateService(ctx context.Context, s *domain.ServiceCatalogItem) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateService")
	defer span.End()

	path := fmt.Sprintf("services?tenant_id=eq.%s&id=eq.%s", s.TenantID, s.ID)
	return c.doPatch(ctx, path, s)
}

func (c *Client) DeleteService(ctx context.Context, tenantID, serviceID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteService")
	defer span.End()

	path := fmt.Sprintf("services?tenant_id=eq.%s&id=eq.%s", tenantID, serviceID)
	return c.doDelete(ctx, path)
}

// UpdateServicePrices writes the whole price matrix document of one service
// in a single grouped PATCH. This is the flush target of the debounced
// price editor.
func (c *Client) UpdateServicePrices(ctx context.Context, tenantID, serviceID string, prices []domain.PriceMatrixEntry) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateServicePrices")
	defer span.End()

	path := fmt.Sprintf("services?tenant_id=eq.%s&id=eq.%s", tenantID, serviceID)
	return c.doPatch(ctx, path, map[string]any{"prices": prices})
}

func (c *Client) ListInventory(ctx context.Context, tenantID string) ([]domain.InventoryItem, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListInventory")
	defer span.End()

	path := fmt.Sprintf("inventory_items?tenant_id=eq.%s", tenantID)
	rows, err := fetchList[domain.InventoryItem](ctx, c, path)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Derive()
	}
	return rows, nil
}

func (c *Client) CreateInventoryItem(ctx context.Context, i *domain.InventoryItem) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateInventoryItem")
	defer span.End()

	_, err := insertOne(ctx, c, "inventory_items", *i)
	return err
}

func (c *Client) UpdateInventoryItem(ctx context.Context, i *domain.InventoryItem) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateInventoryItem")
	defer span.End()

	path := fmt.Sprintf("inventory_items?tenant_id=eq.%s&id=eq.%s", i.TenantID, i.ID)
	return c.doPatch(ctx, path, i)
}

func (c *Client) DeleteInventoryItem(ctx context.Context, tenantID, itemID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteInventoryItem")
	defer span.End()

	path := fmt.Sprintf("inventory_items?tenant_id=eq.%s&id=eq.%s", tenantID, itemID)
	return c.doDelete(ctx, path)
}
