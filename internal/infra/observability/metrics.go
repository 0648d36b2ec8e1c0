package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the core.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	bootstrapAttempts   *prometheus.CounterVec
	bootstrapOutcomes   *prometheus.CounterVec
	bootstrapCoalesced  prometheus.Counter
	persistenceFailures *prometheus.CounterVec
	rollbacks           *prometheus.CounterVec
	mutationDuration    *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	scanRuns            prometheus.Counter
	alertsEmitted       *prometheus.CounterVec
	debounceFlushes     prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		bootstrapAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "core_bootstrap_attempts_total",
				Help: "Tenant resolution attempts by attempt number.",
			},
			[]string{"attempt"},
		),
		bootstrapOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "core_bootstrap_outcomes_total",
				Help: "Terminal bootstrap states reached.",
			},
			[]string{"state"},
		),
		bootstrapCoalesced: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "core_bootstrap_coalesced_total",
				Help: "Bootstrap callers that joined an in-flight resolution.",
			},
		),
		persistenceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "core_persistence_failures_total",
				Help: "Remote write failures by operation.",
			},
			[]string{"operation"},
		),
		rollbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "core_rollbacks_total",
				Help: "Optimistic mutations rolled back by operation.",
			},
			[]string{"operation"},
		),
		mutationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "core_mutation_duration_seconds",
				Help:    "Duration of mutation operations including persistence.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "core_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "core_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		scanRuns: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "core_intelligence_scans_total",
				Help: "Intelligence scans executed.",
			},
		),
		alertsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "core_alerts_emitted_total",
				Help: "Alerts persisted by type.",
			},
			[]string{"type"},
		),
		debounceFlushes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "core_price_flushes_total",
				Help: "Debounced price batches flushed.",
			},
		),
	}
}

// IncrBootstrapAttempt records one tenant resolution attempt.
func (m *Metrics) IncrBootstrapAttempt(attempt string) {
	m.bootstrapAttempts.WithLabelValues(attempt).Inc()
}

// IncrBootstrapOutcome records a terminal bootstrap state.
func (m *Metrics) IncrBootstrapOutcome(state string) {
	m.bootstrapOutcomes.WithLabelValues(state).Inc()
}

// IncrBootstrapCoalesced records a caller that shared an in-flight attempt.
func (m *Metrics) IncrBootstrapCoalesced() {
	m.bootstrapCoalesced.Inc()
}

// IncrPersistenceFailure increments the remote write failure counter.
func (m *Metrics) IncrPersistenceFailure(operation string) {
	m.persistenceFailures.WithLabelValues(operation).Inc()
}

// IncrRollback increments the rollback counter.
func (m *Metrics) IncrRollback(operation string) {
	m.rollbacks.WithLabelValues(operation).Inc()
}

// RecordMutationDuration records the duration of a mutation.
func (m *Metrics) RecordMutationDuration(operation string, d time.Duration) {
	m.mutationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrScanRun increments the intelligence scan counter.
func (m *Metrics) IncrScanRun() {
	m.scanRuns.Inc()
}

// IncrAlertEmitted increments the persisted-alert counter.
func (m *Metrics) IncrAlertEmitted(alertType string) {
	m.alertsEmitted.WithLabelValues(alertType).Inc()
}

// IncrDebounceFlush increments the price batch flush counter.
func (m *Metrics) IncrDebounceFlush() {
	m.debounceFlushes.Inc()
}

// CoreSnapshot is a point-in-time view of the counters that matter for the
// GET /v1/metrics/core endpoint.
type CoreSnapshot struct {
	BootstrapReady      float64 `json:"bootstrap_ready"`
	BootstrapOnboarding float64 `json:"bootstrap_onboarding"`
	BootstrapFailed     float64 `json:"bootstrap_failed"`
	BootstrapCoalesced  float64 `json:"bootstrap_coalesced"`
	Rollbacks           float64 `json:"rollbacks"`
	ScanRuns            float64 `json:"scan_runs"`
	TenantCacheHitRate  float64 `json:"tenant_cache_hit_rate"`
}

// GetCoreSnapshot gathers current counter values.
// Prometheus counters expose cumulative values.
func (m *Metrics) GetCoreSnapshot() *CoreSnapshot {
	hits := getCounterValue(m.cacheHits, "tenant")
	misses := getCounterValue(m.cacheMisses, "tenant")

	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	rollbacks := float64(0)
	for _, op := range []string{"client", "vehicle", "work_order", "inventory", "service", "employee", "employee_tx", "finance", "point_entry", "redemption", "alert", "tenant"} {
		rollbacks += getCounterValue(m.rollbacks, op)
	}

	return &CoreSnapshot{
		BootstrapReady:      getCounterValue(m.bootstrapOutcomes, "ready"),
		BootstrapOnboarding: getCounterValue(m.bootstrapOutcomes, "needs_onboarding"),
		BootstrapFailed:     getCounterValue(m.bootstrapOutcomes, "failed"),
		BootstrapCoalesced:  counterValue(m.bootstrapCoalesced),
		Rollbacks:           rollbacks,
		ScanRuns:            counterValue(m.scanRuns),
		TenantCacheHitRate:  hitRate,
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

func counterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
