package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure|throttled).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storeadmin_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// CacheLookups counts read-through lookups by keyspace and result (hit|miss|error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storeadmin_cache_lookups_total",
			Help: "Read-through cache lookups",
		},
		[]string{"resource", "result"},
	)

	// CacheEvictions counts keys evicted after writes, split by outcome (ok|error).
	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storeadmin_cache_evictions_total",
			Help: "Cache keys invalidated after committed writes",
		},
		[]string{"resource", "result"},
	)

	// TokensCleaned counts personal access tokens removed by maintenance.
	TokensCleaned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storeadmin_tokens_cleaned_total",
			Help: "Expired or revoked personal access tokens deleted",
		},
	)

	// RequestsInFlight tracks requests currently being served.
	RequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storeadmin_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storeadmin_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
