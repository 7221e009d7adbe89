package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "natalcore_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "natalcore_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "natalcore_cache_lookups_total",
		Help: "Hash lookups by resolving tier and result",
	}, []string{"tier", "result"})

	ingestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "natalcore_ingest_duration_seconds",
		Help:    "Duration of atomic horoscope ingestion transactions",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})

	providerCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "natalcore_provider_call_duration_seconds",
		Help:    "Duration of calculation provider calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})

	reconstructDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "natalcore_reconstruct_duration_seconds",
		Help:    "Duration of composite reconstruction fan-outs",
		Buckets: prometheus.DefBuckets,
	})

	cacheSweeps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "natalcore_cache_entries_pruned_total",
		Help: "Expired in-process cache entries reclaimed by the sweeper",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveCacheLookup records a lookup outcome for one tier ("hit"/"miss").
func ObserveCacheLookup(tier, result string) {
	cacheLookups.WithLabelValues(tier, result).Inc()
}

// ObserveIngest records the duration of one ingestion transaction.
func ObserveIngest(result string, duration time.Duration) {
	ingestDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// ObserveProviderCall records the duration of one provider call.
func ObserveProviderCall(result string, duration time.Duration) {
	providerCallDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// ObserveReconstruct records the duration of one reconstruction.
func ObserveReconstruct(duration time.Duration) {
	reconstructDuration.Observe(duration.Seconds())
}

// AddPrunedCacheEntries counts entries reclaimed by the cache sweeper.
func AddPrunedCacheEntries(n int) {
	if n > 0 {
		cacheSweeps.Add(float64(n))
	}
}
