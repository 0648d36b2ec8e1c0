package service

import (
	"context"
	"sync"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddService creates a catalog service with its price matrix and
// consumption bill of materials.
func (s *Session) AddService(ctx context.Context, item domain.ServiceCatalogItem) (*domain.ServiceCatalogItem, bool) {
	ctx, span := actionTracer.Start(ctx, "Session.AddService")
	defer span.End()

	store := s.Store()
	if store == nil {
		return nil, false
	}

	item.ID = uuid.New().String()
	item.TenantID = store.Tenant().ID

	ok := s.mutate(ctx, "service",
		func() { store.PutService(item) },
		func() { store.DeleteService(item.ID) },
		func(ctx context.Context) error { return s.remote.CreateService(ctx, &item) },
	)
	if !ok {
		return nil, false
	}
	return &item, true
}

// UpdateService replaces a catalog service.
func (s *Session) UpdateService(ctx context.Context, item domain.ServiceCatalogItem) bool {
	ctx, span := actionTracer.Start(ctx, "Session.UpdateService")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.Service(item.ID)
	if !ok {
		return false
	}
	item.TenantID = prev.TenantID

	return s.mutate(ctx, "service",
		func() { store.PutService(item) },
		func() { store.PutService(prev) },
		func(ctx context.Context) error { return s.remote.UpdateService(ctx, &item) },
	)
}

// DeleteService removes a catalog service.
func (s *Session) DeleteService(ctx context.Context, serviceID string) bool {
	ctx, span := actionTracer.Start(ctx, "Session.DeleteService")
	defer span.End()

	store := s.Store()
	if store == nil {
		return false
	}

	prev, ok := store.Service(serviceID)
	if !ok {
		return false
	}

	return s.mutate(ctx, "service",
		func() { store.DeleteService(serviceID) },
		func() { store.PutService(prev) },
		func(ctx context.Context) error { return s.remote.DeleteService(ctx, prev.TenantID, serviceID) },
	)
}

// CalculateServiceCost resolves the price of a service for a vehicle size.
func (s *Session) CalculateServiceCost(serviceID, size string) (float64, bool) {
	store := s.Store()
	if store == nil {
		return 0, false
	}
	svc, ok := store.Service(serviceID)
	if !ok {
		return 0, false
	}
	return svc.PriceFor(size)
}

// UpdateServicePrice applies a price edit immediately to the store and
// queues the remote write behind the debounce window. Rapid edits of the
// same (service, size) collapse: the last writer within the window wins,
// and one grouped write per service is issued on flush.
func (s *Session) UpdateServicePrice(serviceID, size string, price float64) bool {
	store := s.Store()
	if store == nil {
		return false
	}

	svc, ok := store.Service(serviceID)
	if !ok {
		return false
	}

	found := false
	for i := range svc.Prices {
		if svc.Prices[i].Size == size {
			svc.Prices[i].Price = price
			found = true
			break
		}
	}
	if !found {
		svc.Prices = append(svc.Prices, domain.PriceMatrixEntry{Size: size, Price: price})
	}
	store.PutService(svc)

	s.prices.queue(serviceID, size)
	return true
}

// FlushPrices forces the pending price batch out immediately. Used on
// teardown and by tests.
func (s *Session) FlushPrices(ctx context.Context) {
	s.prices.flushNow(ctx)
}

// priceDebouncer batches high-frequency price edits keyed by
// (service, size) and flushes them after a quiet period as one grouped
// write per service. One pending timer exists per window, rescheduled on
// every new edit.
type priceDebouncer struct {
	session *Session
	window  time.Duration

	mu      sync.Mutex
	pending map[string]string // key "serviceID|size" -> serviceID
	timer   *time.Timer
	stopped bool
}

func newPriceDebouncer(s *Session, window time.Duration) *priceDebouncer {
	return &priceDebouncer{
		session: s,
		window:  window,
		pending: make(map[string]string),
	}
}

func (d *priceDebouncer) queue(serviceID, size string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.pending[serviceID+"|"+size] = serviceID

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		d.flushNow(context.Background())
	})
}

// flushNow drains the pending set and issues one grouped write per parent
// service, reading the latest prices from the store so the last writer for
// each key wins. Failures are logged only; the optimistic values stand
// until the next successful flush.
func (d *priceDebouncer) flushNow(ctx context.Context) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	batch := d.pending
	d.pending = make(map[string]string)
	d.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	services := make(map[string]bool)
	for _, serviceID := range batch {
		services[serviceID] = true
	}

	s := d.session
	store := s.Store()
	if store == nil {
		return
	}
	tenantID := store.Tenant().ID

	for serviceID := range services {
		svc, ok := store.Service(serviceID)
		if !ok {
			continue
		}
		if err := s.remote.UpdateServicePrices(ctx, tenantID, serviceID, svc.Prices); err != nil {
			s.metrics.IncrPersistenceFailure("service_prices")
			s.logger.Warn("price batch write failed",
				zap.String("service_id", serviceID),
				zap.Error(err),
			)
		}
	}
	s.metrics.IncrDebounceFlush()
}

func (d *priceDebouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = make(map[string]string)
}
