package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/walletly/walletly-api/internal/domain"
)

// Metrics holds all Prometheus metrics for the tracker.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	storeErrors     *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	ledgerMutations *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "walletly_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletly_store_errors_total",
				Help: "Total errors from the persistence backend.",
			},
			[]string{"store"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletly_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletly_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		ledgerMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletly_ledger_mutations_total",
				Help: "Total completed ledger mutations by entity and operation.",
			},
			[]string{"entity", "op"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletly_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncStoreError increments the persistence error counter.
func (m *Metrics) IncStoreError(store string) {
	m.storeErrors.WithLabelValues(store).Inc()
}

// IncCacheHit increments the cache hit counter.
func (m *Metrics) IncCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncCacheMiss increments the cache miss counter.
func (m *Metrics) IncCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncLedgerMutation counts one completed ledger mutation.
func (m *Metrics) IncLedgerMutation(entity, op string) {
	m.ledgerMutations.WithLabelValues(entity, op).Inc()
}

// IncRequest increments the request counter with a status label.
func (m *Metrics) IncRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// ledger entities reported in the ops snapshot.
var snapshotEntities = []string{"account", "category", "limit", "expense", "income", "transfer"}

// GetLedgerSnapshot returns a snapshot of ledger metrics suitable for the
// GET /api/metrics/ledger endpoint.
func (m *Metrics) GetLedgerSnapshot() *domain.LedgerMetrics {
	totalRequests := getCounterValue(m.requestsTotal, "success") +
		getCounterValue(m.requestsTotal, "error")
	errorCount := getCounterValue(m.requestsTotal, "error")
	cacheHits := getCounterValue(m.cacheHits, "categories")
	cacheMisses := getCounterValue(m.cacheMisses, "categories")

	errorRate := float64(0)
	cacheHitRate := float64(0)
	if totalRequests > 0 {
		errorRate = errorCount / totalRequests
	}
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	mutations := make(map[string]int64, len(snapshotEntities))
	for _, entity := range snapshotEntities {
		var total float64
		for _, op := range []string{"create", "update", "delete"} {
			total += getCounterValue(m.ledgerMutations, entity, op)
		}
		mutations[entity] = int64(total)
	}

	return &domain.LedgerMetrics{
		TotalRequests:     int64(totalRequests),
		ErrorRate:         errorRate,
		CacheHitRate:      cacheHitRate,
		MutationsByEntity: mutations,
		Period:            "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for given labels.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
