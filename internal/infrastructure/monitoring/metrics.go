package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the storage service.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Storage engine metrics
	StorageOps        *prometheus.CounterVec
	StorageOpDuration *prometheus.HistogramVec
	UploadBytes       prometheus.Histogram
	SandboxViolations prometheus.Counter

	// Auth metrics
	SessionsActive prometheus.Gauge
	LoginsTotal    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clouddisk_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clouddisk_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		RequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clouddisk_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: prometheus.ExponentialBuckets(256, 4, 8),
			},
			[]string{"method", "path"},
		),
		ResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clouddisk_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(256, 4, 8),
			},
			[]string{"method", "path"},
		),

		StorageOps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clouddisk_storage_operations_total",
				Help: "Storage engine operations by kind and outcome",
			},
			[]string{"operation", "status"},
		),
		StorageOpDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clouddisk_storage_operation_duration_seconds",
				Help:    "Storage engine operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		UploadBytes: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "clouddisk_upload_size_bytes",
				Help:    "Uploaded file size in bytes",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
			},
		),
		SandboxViolations: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "clouddisk_sandbox_violations_total",
				Help: "Rejected attempts to resolve a path outside a user root",
			},
		),

		SessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "clouddisk_sessions_active",
				Help: "Number of active user sessions",
			},
		),
		LoginsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clouddisk_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"status"},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "clouddisk_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}
}

// RecordHTTPRequest records metrics for a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}

// RecordStorageOp records one storage engine operation.
func (m *Metrics) RecordStorageOp(operation, status string, duration time.Duration) {
	m.StorageOps.WithLabelValues(operation, status).Inc()
	m.StorageOpDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSandboxViolation counts a rejected path escape attempt.
func (m *Metrics) RecordSandboxViolation() {
	m.SandboxViolations.Inc()
}

// RecordUpload records the size of a successfully stored upload.
func (m *Metrics) RecordUpload(bytes int64) {
	m.UploadBytes.Observe(float64(bytes))
}

// RecordLogin counts a login attempt by outcome ("success" or "failure").
func (m *Metrics) RecordLogin(status string) {
	m.LoginsTotal.WithLabelValues(status).Inc()
}
