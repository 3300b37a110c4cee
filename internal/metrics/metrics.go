// Package metrics provides Prometheus metrics for the session dashboard
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the dashboard
type Metrics struct {
	// Store metrics
	StoreRequestsTotal   *prometheus.CounterVec
	StoreRequestDuration *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Dashboard state
	SessionsLoaded      prometheus.Gauge
	SessionsVisible     prometheus.Gauge
	StaleLoadsDiscarded prometheus.Counter
}

// NewMetrics creates all metrics and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.StoreRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_store_requests_total",
			Help: "Total number of session store requests",
		},
		[]string{"backend", "operation", "status"},
	)

	m.StoreRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_store_request_duration_seconds",
			Help:    "Duration of session store requests in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"backend", "operation"},
	)

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Total number of dashboard HTTP requests",
		},
		[]string{"route", "code"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "Duration of dashboard HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.SessionsLoaded = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_sessions_loaded",
			Help: "Sessions held after exclusion and transcript filtering",
		},
	)

	m.SessionsVisible = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_sessions_visible",
			Help: "Sessions remaining after the operator's filters",
		},
	)

	m.StaleLoadsDiscarded = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_stale_transcript_loads_total",
			Help: "Transcript responses discarded because a newer selection was made",
		},
	)

	return m
}

// RecordStoreRequest records a store request with its status
func (m *Metrics) RecordStoreRequest(backend, operation, status string, duration time.Duration) {
	m.StoreRequestsTotal.WithLabelValues(backend, operation, status).Inc()
	m.StoreRequestDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordHTTPRequest records a dashboard HTTP request
func (m *Metrics) RecordHTTPRequest(route, code string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, code).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// UpdateSessionCounts sets the loaded and visible gauges
func (m *Metrics) UpdateSessionCounts(loaded, visible int) {
	m.SessionsLoaded.Set(float64(loaded))
	m.SessionsVisible.Set(float64(visible))
}
