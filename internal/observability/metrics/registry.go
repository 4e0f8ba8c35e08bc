package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics tracks what a run of the list builder saw and produced.
type PipelineMetrics struct {
	registry *prometheus.Registry

	// EntriesParsedTotal counts entries that left the parser
	EntriesParsedTotal prometheus.Counter

	// DiagnosticsTotal counts validator findings by kind (same_date, out_of_order, gap)
	DiagnosticsTotal *prometheus.CounterVec

	// RowsRenderedTotal counts table rows written
	RowsRenderedTotal prometheus.Counter

	// EntriesSkippedTotal counts entries dropped at render time for lacking an id
	EntriesSkippedTotal prometheus.Counter

	// RunsTotal counts pipeline runs by status (success, failure)
	RunsTotal *prometheus.CounterVec

	// RunDurationSeconds measures end-to-end run time
	RunDurationSeconds prometheus.Histogram

	// LastSuccessTimestamp records the Unix time of the last successful run
	LastSuccessTimestamp prometheus.Gauge
}

// NewPipelineMetrics creates the pipeline metrics and registers them with reg.
func NewPipelineMetrics(reg *prometheus.Registry) *PipelineMetrics {
	factory := promauto.With(reg)
	return &PipelineMetrics{
		registry: reg,

		EntriesParsedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "cotw_entries_parsed_total",
			Help: "Total number of Crate of the Week entries parsed",
		}),

		DiagnosticsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cotw_diagnostics_total",
			Help: "Total number of ordering diagnostics by kind",
		}, []string{"kind"}),

		RowsRenderedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "cotw_rows_rendered_total",
			Help: "Total number of table rows rendered",
		}),

		EntriesSkippedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "cotw_entries_skipped_total",
			Help: "Total number of entries skipped at render time because they have no crate id",
		}),

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cotw_runs_total",
			Help: "Total number of pipeline runs by status (success/failure)",
		}, []string{"status"}),

		RunDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cotw_run_duration_seconds",
			Help:    "Duration of a pipeline run in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cotw_last_success_timestamp",
			Help: "Unix timestamp of the last successful pipeline run",
		}),
	}
}

// Registry returns the registry the metrics were registered with.
func (m *PipelineMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordEntriesParsed adds count parsed entries.
func (m *PipelineMetrics) RecordEntriesParsed(count int) {
	m.EntriesParsedTotal.Add(float64(count))
}

// RecordDiagnostic increments the counter for one diagnostic kind.
func (m *PipelineMetrics) RecordDiagnostic(kind string) {
	m.DiagnosticsTotal.WithLabelValues(kind).Inc()
}

// RecordRendered adds the rows written and entries skipped by one render.
func (m *PipelineMetrics) RecordRendered(rows, skipped int) {
	m.RowsRenderedTotal.Add(float64(rows))
	m.EntriesSkippedTotal.Add(float64(skipped))
}

// RecordRun records the outcome and duration of a run.
// Status should be either "success" or "failure".
func (m *PipelineMetrics) RecordRun(status string, d time.Duration) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDurationSeconds.Observe(d.Seconds())
	if status == "success" {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}

// WriteTextfile writes every metric in the registry to path in the Prometheus
// text exposition format. The file is replaced atomically.
func (m *PipelineMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
