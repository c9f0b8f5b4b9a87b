// Package monitoring provides Prometheus metrics and OpenTelemetry tracing
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

const namespace = "pantry"

// Metrics collects service telemetry on its own registry
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	videoResolutions *prometheus.CounterVec
	videoDuration    *prometheus.HistogramVec
	videoCacheErrors *prometheus.CounterVec
	ratingsRecorded  *prometheus.CounterVec
}

var _ outbound.VideoMetrics = (*Metrics)(nil)

// NewMetrics registers all collectors on a fresh registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		videoResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "video_resolutions_total",
				Help:      "Video requests by outcome (cache_hit, generated, fallback, error)",
			},
			[]string{"outcome"},
		),
		videoDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "video_resolution_duration_seconds",
				Help:      "Time to resolve a recipe video",
				Buckets:   []float64{0.005, 0.05, 0.25, 1, 5, 15, 30, 60},
			},
			[]string{"outcome"},
		),
		videoCacheErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "video_cache_errors_total",
				Help:      "Video cache failures by operation",
			},
			[]string{"operation"},
		),
		ratingsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recipe_ratings_total",
				Help:      "Ratings recorded by value",
			},
			[]string{"rating"},
		),
	}
}

// VideoResolved records the outcome and latency of one video request
func (m *Metrics) VideoResolved(outcome string, duration time.Duration) {
	m.videoResolutions.WithLabelValues(outcome).Inc()
	m.videoDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// CacheError counts a failed cache read or write
func (m *Metrics) CacheError(operation string) {
	m.videoCacheErrors.WithLabelValues(operation).Inc()
}

// RatingRecorded counts a stored rating
func (m *Metrics) RatingRecorded(value int) {
	m.ratingsRecorded.WithLabelValues(strconv.Itoa(value)).Inc()
}

// ObserveHTTP records a completed HTTP request. route is the matched
// pattern, never the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
