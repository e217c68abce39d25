// Package monitoring provides Prometheus metrics for the sandbox host:
// HTTP traffic, websocket protocol volume, sandbox rebuilds, and every
// auto-fix pipeline transition.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// WebSocket protocol metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// Sandbox metrics
	Rebuilds        prometheus.Counter
	RebuildDuration prometheus.Histogram
	CompileErrors   prometheus.Counter
	ProjectFiles    prometheus.Gauge

	// Auto-fix pipeline metrics
	ErrorsClassified *prometheus.CounterVec
	FixPrompts       prometheus.Counter
	FixesApplied     *prometheus.CounterVec
	FixesEscalated   prometheus.Counter

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates and registers the metrics collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sandbox_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sandbox_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sandbox_ws_connections",
				Help: "Number of open websocket connections",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sandbox_ws_messages_total",
				Help: "Protocol messages by kind and direction",
			},
			[]string{"kind", "direction"},
		),

		Rebuilds: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sandbox_rebuilds_total",
				Help: "Total sandbox document rebuilds",
			},
		),
		RebuildDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sandbox_rebuild_duration_seconds",
				Help:    "Document assembly duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		CompileErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sandbox_compile_errors_total",
				Help: "Per-file compile failures across all rebuilds",
			},
		),
		ProjectFiles: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sandbox_project_files",
				Help: "Files in the current project map",
			},
		),

		ErrorsClassified: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sandbox_errors_classified_total",
				Help: "Classified runtime errors by category",
			},
			[]string{"category"},
		),
		FixPrompts: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sandbox_fix_prompts_total",
				Help: "Confirmation prompts shown for AI fixes",
			},
		),
		FixesApplied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sandbox_fixes_applied_total",
				Help: "Fixes written to the project by fix type",
			},
			[]string{"fix_type"},
		),
		FixesEscalated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sandbox_fixes_escalated_total",
				Help: "Fix attempts handed to the chat collaborator",
			},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sandbox_uptime_seconds",
				Help: "Server uptime in seconds",
			},
		),
	}

	return m
}

// RecordHTTPRequest records one completed request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRebuild records one document assembly.
func (m *Metrics) RecordRebuild(duration time.Duration, compileErrors, fileCount int) {
	m.Rebuilds.Inc()
	m.RebuildDuration.Observe(duration.Seconds())
	m.CompileErrors.Add(float64(compileErrors))
	m.ProjectFiles.Set(float64(fileCount))
}

// UpdateUptime refreshes the uptime gauge.
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}
