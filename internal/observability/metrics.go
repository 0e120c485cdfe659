package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes Prometheus collectors for the service.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec

	authAttempts    *prometheus.CounterVec
	auditQueueDepth prometheus.Gauge
	auditDropped    prometheus.Counter
}

// NewMetrics initializes and registers all collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by path, method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method", "status"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "HTTP errors by path, method and error code.",
		}, []string{"path", "method", "code"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Authentication attempts by principal class and outcome.",
		}, []string{"class", "outcome"}),
		auditQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "audit_queue_depth",
			Help: "Pending attempt records awaiting the audit workers.",
		}),
		auditDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audit_records_dropped_total",
			Help: "Attempt records dropped because the audit queue was full.",
		}),
	}

	registry.MustRegister(
		m.requestDuration,
		m.errorCount,
		m.authAttempts,
		m.auditQueueDepth,
		m.auditDropped,
	)
	return m
}

// RecordRequest observes a completed HTTP request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(path, method, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordError counts a request that resolved to an error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

// RecordAuthAttempt counts one authentication outcome.
func (m *Metrics) RecordAuthAttempt(class, outcome string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(class, outcome).Inc()
}

// SetAuditQueueDepth reports the pending audit queue length.
func (m *Metrics) SetAuditQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.auditQueueDepth.Set(float64(depth))
}

// IncAuditDropped counts a dropped attempt record.
func (m *Metrics) IncAuditDropped() {
	if m == nil {
		return
	}
	m.auditDropped.Inc()
}

// Handler returns the scrape endpoint for the metrics listener.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
