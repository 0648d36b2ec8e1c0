package service

import (
	"context"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"

	"github.com/google/uuid"
)

// AddInventoryItem creates a stocked material.
func (s *Session) AddInventoryItem(ctx context.Context, i domain.InventoryItem) (*domain.InventoryItem, bool) {
	ctx, span := actionTracer.Start(ctx, "Session.AddInventoryItem")
	defer span.End()

	store := s.Store()
	if store == nil {
		return nil, false
	}

	i.ID = uuid.New().String()
	i.TenantID = store.Tenant().ID
	i.Derive()

	ok := s.mutate(ctx, "inventory",
		func() { store.PutInventoryItem(i) },
		func() { store.DeleteInventoryItem(i.ID) },
		func(ctx context.Context) error { return s.remote.CreateInventoryItem(ctx, &i) },
	)
	if !ok {
		return nil, false
	}
	return &i, true
}

// UpdateInventoryItem replaces an item record.
func (s *Session) UpdateInventoryItem(ctx context.Context, i domain.InventoryItem) bool {
	ctx, span := actionTracer.Start(ctx, "Session.UpdateInventoryItem")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.InventoryItem(i.ID)
	if !ok {
		return false
	}
	i.TenantID = prev.TenantID
	i.Derive()

	return s.mutate(ctx, "inventory",
		func() { store.PutInventoryItem(i) },
		func() { store.PutInventoryItem(prev) },
		func(ctx context.Context) error { return s.remote.UpdateInventoryItem(ctx, &i) },
	)
}

// DeleteInventoryItem removes an item.
func (s *Session) DeleteInventoryItem(ctx context.Context, itemID string) bool {
	ctx, span := actionTracer.Start(ctx, "Session.DeleteInventoryItem")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.InventoryItem(itemID)
	if !ok {
		return false
	}

	return s.mutate(ctx, "inventory",
		func() { store.DeleteInventoryItem(itemID) },
		func() { store.PutInventoryItem(prev) },
		func(ctx context.Context) error { return s.remote.DeleteInventoryItem(ctx, prev.TenantID, itemID) },
	)
}

// deductStock lowers an item's stock, clamping at zero, and refreshes the
// derived status. Best-effort remote write; the local deduction stands even
// when persistence fails.
func (s *Session) deductStock(ctx context.Context, itemID string, qty float64) {
	store := s.Store()
	if store == nil {
		return
	}

	item, ok := store.InventoryItem(itemID)
	if !ok {
		return
	}

	item.Stock -= qty
	if item.Stock < 0 {
		item.Stock = 0
	}
	item.Derive()
	store.PutInventoryItem(item)

	s.persistOnly(ctx, "inventory", func(ctx context.Context) error {
		return s.remote.UpdateInventoryItem(ctx, &item)
	})
}
