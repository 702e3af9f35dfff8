package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Bulk file analysis metrics
	AnalysesTotal       *prometheus.CounterVec
	AnalysisDuration    prometheus.Histogram
	AnalysesInProgress  prometheus.Gauge
	AnalysisRowsParsed  *prometheus.CounterVec
	AnalysisParseErrors *prometheus.CounterVec

	// Suggestion metrics
	SuggestionsGenerated *prometheus.CounterVec

	// Export metrics
	ExportsTotal    *prometheus.CounterVec
	ExportRowsTotal prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		AnalysesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bulk_analyses_total",
				Help: "Total number of bulk file analyses",
			},
			[]string{"status"},
		),

		AnalysisDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bulk_analysis_duration_seconds",
				Help:    "Bulk file analysis duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
		),

		AnalysesInProgress: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "bulk_analyses_in_progress",
				Help: "Number of bulk file analyses currently in progress",
			},
		),

		AnalysisRowsParsed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bulk_analysis_rows_parsed_total",
				Help: "Total number of rows parsed from bulk files",
			},
			[]string{"sheet"},
		),

		AnalysisParseErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bulk_analysis_parse_errors_total",
				Help: "Total number of bulk file parse failures",
			},
			[]string{"error_type"},
		),

		SuggestionsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "suggestions_generated_total",
				Help: "Total number of optimization suggestions generated",
			},
			[]string{"category"},
		),

		ExportsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bulk_exports_total",
				Help: "Total number of bulk file exports",
			},
			[]string{"status"},
		),

		ExportRowsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bulk_export_rows_total",
				Help: "Total number of action rows written to bulk exports",
			},
		),
	}
}

// HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// Analysis metrics
func (m *Metrics) RecordAnalysis(status string, duration time.Duration) {
	m.AnalysesTotal.WithLabelValues(status).Inc()
	m.AnalysisDuration.Observe(duration.Seconds())
}

// Parsed row counters per sheet
func (m *Metrics) RecordAnalysisRows(sheet string, count int) {
	m.AnalysisRowsParsed.WithLabelValues(sheet).Add(float64(count))
}

// Parse failure counter
func (m *Metrics) RecordAnalysisParseError(errorType string) {
	m.AnalysisParseErrors.WithLabelValues(errorType).Inc()
}

// Suggestion counters per category
func (m *Metrics) RecordSuggestions(category string, count int) {
	m.SuggestionsGenerated.WithLabelValues(category).Add(float64(count))
}

// Export outcome counter
func (m *Metrics) RecordExport(status string) {
	m.ExportsTotal.WithLabelValues(status).Inc()
}

// Export row counter
func (m *Metrics) RecordExportRows(count int) {
	m.ExportRowsTotal.Add(float64(count))
}

// Analyses in progress counter
func (m *Metrics) IncAnalysesInProgress() {
	m.AnalysesInProgress.Inc()
}

// Analyses in progress counter
func (m *Metrics) DecAnalysesInProgress() {
	m.AnalysesInProgress.Dec()
}

// HTTP requests in flight counter
func (m *Metrics) IncHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// HTTP requests in flight counter
func (m *Metrics) DecHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
