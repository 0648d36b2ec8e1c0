package service

import (
	"context"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

var actionTracer = otel.Tracer("service/actions")

// AddClient creates a client through the mutation pipeline. The returned
// client carries the generated id; ok is false when persistence failed and
// the optimistic entry was removed again.
func (s *Session) AddClient(ctx context.Context, c domain.Client) (*domain.Client, bool) {
	ctx, span := actionTracer.Start(ctx, "Session.AddClient")
	defer span.End()

	store := s.Store()
	if store == nil {
		return nil, false
	}

	c.ID = uuid.New().String()
	c.TenantID = store.Tenant().ID
	c.CreatedAt = time.Now()
	c.Derive(time.Now())

	ok := s.mutate(ctx, "client",
		func() { store.PutClient(c) },
		func() { store.DeleteClient(c.ID) },
		func(ctx context.Context) error { return s.remote.CreateClient(ctx, &c) },
	)
	if !ok {
		return nil, false
	}
	return &c, true
}

// UpdateClient replaces a client record. The pre-mutation snapshot is
// restored when the remote write fails.
func (s *Session) UpdateClient(ctx context.Context, c domain.Client) bool {
	ctx, span := actionTracer.Start(ctx, "Session.UpdateClient")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.Client(c.ID)
	if !ok {
		return false
	}
	c.TenantID = prev.TenantID
	c.CreatedAt = prev.CreatedAt
	c.Derive(time.Now())

	return s.mutate(ctx, "client",
		func() { store.PutClient(c) },
		func() { store.PutClient(prev) },
		func(ctx context.Context) error { return s.remote.UpdateClient(ctx, &c) },
	)
}

// DeleteClient removes a client; the entry is reinserted on failure.
func (s *Session) DeleteClient(ctx context.Context, clientID string) bool {
	ctx, span := actionTracer.Start(ctx, "Session.DeleteClient")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.Client(clientID)
	if !ok {
		return false
	}

	return s.mutate(ctx, "client",
		func() { store.DeleteClient(clientID) },
		func() { store.PutClient(prev) },
		func(ctx context.Context) error { return s.remote.DeleteClient(ctx, prev.TenantID, clientID) },
	)
}

// AddVehicle attaches a vehicle to a client.
func (s *Session) AddVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, bool) {
	ctx, span := actionTracer.Start(ctx, "Session.AddVehicle")
	defer span.End()

	store := s.Store()
	if store == nil {
		return nil, false
	}
	if _, ok := store.Client(v.ClientID); !ok {
		return nil, false
	}

	v.ID = uuid.New().String()
	v.TenantID = store.Tenant().ID

	ok := s.mutate(ctx, "vehicle",
		func() { store.PutVehicle(v) },
		func() { store.DeleteVehicle(v.ID) },
		func(ctx context.Context) error { return s.remote.CreateVehicle(ctx, &v) },
	)
	if !ok {
		return nil, false
	}
	return &v, true
}

// UpdateVehicle replaces a vehicle record.
func (s *Session) UpdateVehicle(ctx context.Context, v domain.Vehicle) bool {
	ctx, span := actionTracer.Start(ctx, "Session.UpdateVehicle")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.Vehicle(v.ID)
	if !ok {
		return false
	}
	v.TenantID = prev.TenantID

	return s.mutate(ctx, "vehicle",
		func() { store.PutVehicle(v) },
		func() { store.PutVehicle(prev) },
		func(ctx context.Context) error { return s.remote.UpdateVehicle(ctx, &v) },
	)
}

// DeleteVehicle removes a vehicle.
func (s *Session) DeleteVehicle(ctx context.Context, vehicleID string) bool {
	ctx, span := actionTracer.Start(ctx, "Session.DeleteVehicle")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.Vehicle(vehicleID)
	if !ok {
		return false
	}

	return s.mutate(ctx, "vehicle",
		func() { store.DeleteVehicle(vehicleID) },
		func() { store.PutVehicle(prev) },
		func(ctx context.Context) error { return s.remote.DeleteVehicle(ctx, prev.TenantID, vehicleID) },
	)
}
