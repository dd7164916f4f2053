// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Source metrics
	SourceLoadDuration *prometheus.HistogramVec
	SourceLoadErrors   *prometheus.CounterVec

	// Validation metrics
	RowsLoaded         prometheus.Gauge
	RowsDropped        prometheus.Gauge
	RowsValid          prometheus.Gauge
	ValidationWarnings *prometheus.GaugeVec
	FatalErrors        *prometheus.CounterVec

	// Pipeline metrics
	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	StageDuration    *prometheus.HistogramVec
	ReportsGenerated prometheus.Counter

	// KPI metrics of the latest run
	WeeklySales        prometheus.Gauge
	WeeklyTransactions prometheus.Gauge

	// Delivery metrics
	EmailsSent *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "weekly_sales_report"
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Source metrics
		SourceLoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "load_duration_seconds",
			Help:      "Raw export load duration in seconds by source kind",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		SourceLoadErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "load_errors_total",
			Help:      "Total number of failed raw export loads by source kind",
		}, []string{"source"}),

		// Validation metrics
		RowsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "rows_loaded",
			Help:      "Rows read from the raw export in the latest run",
		}),
		RowsDropped: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "rows_dropped",
			Help:      "Rows dropped for unparsable dates in the latest run",
		}),
		RowsValid: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "rows_valid",
			Help:      "Rows of the cleaned table in the latest run",
		}),
		ValidationWarnings: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "warning_rows",
			Help:      "Rows flagged per warning check in the latest run",
		}, []string{"check"}),
		FatalErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "fatal_errors_total",
			Help:      "Total number of fatal validation errors by kind",
		}, []string{"kind"}),

		// Pipeline metrics
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of report runs by status",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Report run duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Report stage duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		ReportsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		// KPI metrics
		WeeklySales: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "kpi",
			Name:      "weekly_sales",
			Help:      "Total sales of the latest reported week",
		}),
		WeeklyTransactions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "kpi",
			Name:      "weekly_transactions",
			Help:      "Distinct invoices of the latest reported week",
		}),

		// Delivery metrics
		EmailsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "emails_total",
			Help:      "Total number of report emails by status",
		}, []string{"status"}),

		// Health metrics
		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful report run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", prometheus.DefaultRegisterer)

// RecordSourceLoad records a raw export load.
func (m *Metrics) RecordSourceLoad(source string, seconds float64, err error) {
	m.SourceLoadDuration.WithLabelValues(source).Observe(seconds)
	if err != nil {
		m.SourceLoadErrors.WithLabelValues(source).Inc()
	}
}

// RecordValidation sets the row gauges and replaces the per-check warning gauges.
func (m *Metrics) RecordValidation(loaded, dropped, valid int, warnings map[string]int) {
	m.RowsLoaded.Set(float64(loaded))
	m.RowsDropped.Set(float64(dropped))
	m.RowsValid.Set(float64(valid))
	m.ValidationWarnings.Reset()
	for check, rows := range warnings {
		m.ValidationWarnings.WithLabelValues(check).Set(float64(rows))
	}
}

// RecordFatal counts a fatal validation error.
func (m *Metrics) RecordFatal(kind string) {
	m.FatalErrors.WithLabelValues(kind).Inc()
}

// RecordStage records one stage duration.
func (m *Metrics) RecordStage(stage string, seconds float64) {
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordRun records a report run.
func (m *Metrics) RecordRun(status string, durationSeconds float64) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(durationSeconds)
}

// RecordReport records the KPIs of a generated report.
func (m *Metrics) RecordReport(weeklySales float64, transactions int, unixTime int64) {
	m.ReportsGenerated.Inc()
	m.WeeklySales.Set(weeklySales)
	m.WeeklyTransactions.Set(float64(transactions))
	m.LastSuccessfulRun.Set(float64(unixTime))
}

// RecordEmail records a delivery attempt.
func (m *Metrics) RecordEmail(status string) {
	m.EmailsSent.WithLabelValues(status).Inc()
}
