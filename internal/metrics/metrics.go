package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// Link lifecycle metrics
	LinksCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "links_created_total",
			Help: "Total number of create attempts by outcome",
		},
		[]string{"status"},
	)

	LinkRedirectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_redirects_total",
			Help: "Total number of resolve attempts by outcome",
		},
		[]string{"result"},
	)

	LinksReapedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "links_reaped_total",
			Help: "Total number of expired links removed",
		},
		[]string{"source"},
	)

	ShortIDCollisionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "short_id_collisions_total",
			Help: "Total number of generated short ids rejected as duplicates",
		},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_cache_requests_total",
			Help: "Link cache lookups by result",
		},
		[]string{"result"},
	)
)

// RecordHTTPMetrics records metrics for an HTTP request
func RecordHTTPMetrics(method, path, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
