// Package metrics defines Prometheus metrics for the Selling Partner API client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "spapi"

// Token lifecycle metrics.
var (
	TokenRefreshesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of access token exchanges sent to the token endpoint.",
	})

	TokenRefreshFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_failures_total",
		Help:      "Total number of failed access token exchanges.",
	})

	TokenRefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "token_refresh_duration_seconds",
		Help:      "Duration of access token exchanges in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	TokenCacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_cache_lookups_total",
		Help:      "Total shared token cache lookups by result (hit, miss, stale, error).",
	}, []string{"result"})
)

// Request dispatch metrics.
var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of authenticated requests dispatched.",
	}, []string{"method", "region", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of authenticated requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "region"})

	RateLimitWaitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rate_limit_wait_seconds",
		Help:      "Time spent waiting on the per-operation rate limiter.",
		Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60},
	}, []string{"operation"})
)

// Mock server metrics.
var (
	MockHTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "mock",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of requests served by the mock API in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	MockHTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mock",
		Name:      "http_requests_total",
		Help:      "Total number of requests served by the mock API.",
	}, []string{"method", "path", "status"})

	MockHealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "mock",
		Name:      "healthz_up",
		Help:      "Whether the mock API health check is passing (1 = up, 0 = down).",
	})
)
