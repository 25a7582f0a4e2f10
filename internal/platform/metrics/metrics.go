package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the pipeline.
type Metrics struct {
	RowsRead       *prometheus.CounterVec
	RowsWritten    *prometheus.CounterVec
	RowsDropped    *prometheus.CounterVec
	ValuesRepaired *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec
	RunsTotal      *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RowsRead: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prism_rows_read_total",
			Help: "Raw rows read from the staging store, by entity.",
		}, []string{"entity"}),
		RowsWritten: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prism_rows_written_total",
			Help: "Rows written to silver and gold tables, by table.",
		}, []string{"table"}),
		RowsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prism_rows_dropped_total",
			Help: "Rows dropped during cleansing or deduplication, by entity and reason.",
		}, []string{"entity", "reason"}),
		ValuesRepaired: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prism_values_repaired_total",
			Help: "Field values repaired or defaulted, by entity and reason.",
		}, []string{"entity", "reason"}),
		StageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "prism_stage_duration_seconds",
			Help:    "Wall time per pipeline stage.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prism_runs_total",
			Help: "Completed pipeline runs, by outcome.",
		}, []string{"outcome"}),
	}
}
