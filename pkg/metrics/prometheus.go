// Package metrics provides Prometheus metrics for the SnookerUp REST
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Business metrics
	scoresAccepted prometheus.Counter
	scoresRejected *prometheus.CounterVec

	// Store metrics
	storeQueryLatency *prometheus.HistogramVec
	usersTotal        prometheus.Gauge
	routinesTotal     prometheus.Gauge
	scoresTotal       prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "snookerup",
		subsystem:        "rest",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_errors_total",
			Help:      "Total number of error responses by endpoint and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.scoresAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_accepted_total",
		Help:      "Total number of scores that passed validation and were stored",
	})

	m.scoresRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "scores_rejected_total",
			Help:      "Total number of scores rejected by the validation gate, by field",
		},
		[]string{"field"},
	)

	m.storeQueryLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_query_latency_milliseconds",
			Help:      "Store operation latency in milliseconds, by operation",
			Buckets:   m.histogramBuckets,
		},
		[]string{"operation"},
	)

	m.usersTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "users_total",
		Help:      "Total number of registered users",
	})

	m.routinesTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "routines_total",
		Help:      "Total number of routines",
	})

	m.scoresTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_total",
		Help:      "Total number of recorded scores",
	})
}

// GetRegistry returns the registry metrics are collected on, for
// serving via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RecordHTTPRequest increments the request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes a request duration in
// milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordErrorByEndpoint increments the error counter for an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordScoreAccepted counts a score that passed the validation gate.
func RecordScoreAccepted() {
	if globalManager.enabled {
		globalManager.scoresAccepted.Inc()
	}
}

// RecordScoreRejected counts a score rejected by the validation gate.
func RecordScoreRejected(field string) {
	if globalManager.enabled {
		globalManager.scoresRejected.WithLabelValues(field).Inc()
	}
}

// RecordStoreQueryLatency observes a store operation latency in
// milliseconds.
func RecordStoreQueryLatency(operation string, durationMs float64) {
	if globalManager.enabled {
		globalManager.storeQueryLatency.WithLabelValues(operation).Observe(durationMs)
	}
}

// UpdateRecordCounts sets the per-collection record count gauges.
func UpdateRecordCounts(users, routines, scores int) {
	if globalManager.enabled {
		globalManager.usersTotal.Set(float64(users))
		globalManager.routinesTotal.Set(float64(routines))
		globalManager.scoresTotal.Set(float64(scores))
	}
}
