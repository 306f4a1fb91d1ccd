// Package metrics provides Prometheus metrics for the tap classification service.
package metrics

import (
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Verdict label values.
const (
	verdictValid   = "valid"
	verdictInvalid = "invalid"
)

var classifyLatencyBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000} //nolint:gochecknoglobals // fixed bucket layout

// Manager owns the Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          atomic.Bool
	registry         prometheus.Registerer

	// Classification
	tapsClassified  *prometheus.CounterVec
	tapAnomalies    *prometheus.CounterVec
	tapsSkipped     prometheus.Counter
	classifyLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

var globalManager = NewManager(WithPrometheusRegistry(customRegistry)) //nolint:gochecknoglobals // singleton metrics manager

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tapcheck",
		subsystem:        "classifier",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	m.enabled.Store(true)

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.tapsClassified = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "taps_classified_total",
		Help:      "Total number of taps classified, by verdict",
	}, []string{"verdict"})

	m.tapAnomalies = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tap_anomalies_total",
		Help:      "Total number of anomaly tags appended by the classifier, by tag",
	}, []string{"anomaly"})

	m.tapsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "taps_skipped_total",
		Help:      "Total number of taps that arrived already flagged and were not evaluated",
	})

	m.classifyLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "classify_latency_microseconds",
		Help:      "Histogram of classification latency in microseconds",
		Buckets:   classifyLatencyBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// Enabled reports whether the manager records observations.
func (m *Manager) Enabled() bool { return m.enabled.Load() }

// SetEnabled turns recording on or off for the global manager.
func SetEnabled(enabled bool) {
	globalManager.enabled.Store(enabled)
}

// RecordTapClassified counts one classified tap.
func RecordTapClassified(valid bool) {
	if !globalManager.Enabled() {
		return
	}
	verdict := verdictInvalid
	if valid {
		verdict = verdictValid
	}
	globalManager.tapsClassified.WithLabelValues(verdict).Inc()
}

// RecordAnomaly counts one anomaly tag appended by the classifier.
func RecordAnomaly(tag string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.tapAnomalies.WithLabelValues(tag).Inc()
}

// RecordTapSkipped counts a tap that was already flagged on entry.
func RecordTapSkipped() {
	if !globalManager.Enabled() {
		return
	}
	globalManager.tapsSkipped.Inc()
}

// RecordClassifyLatency records classification latency in microseconds.
func RecordClassifyLatency(latencyUs float64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.classifyLatency.Observe(latencyUs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method string, statusCode int) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method string, statusCode int, durationMs float64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, strconv.Itoa(statusCode)).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
