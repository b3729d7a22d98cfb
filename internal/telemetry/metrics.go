package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instrumentation for the service.
type Metrics struct {
	RecordsIngested  prometheus.Counter
	RecordsConsumed  prometheus.Counter
	AnalysisRuns     *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		RecordsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "policylog_records_ingested_total",
			Help: "Records read from log files and produced to Kafka.",
		}),
		RecordsConsumed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "policylog_records_consumed_total",
			Help: "Records consumed from Kafka and stored.",
		}),
		AnalysisRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "policylog_analysis_runs_total",
			Help: "Analysis runs by final status.",
		}, []string{"status"}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "policylog_analysis_duration_seconds",
			Help:    "Wall time of one analysis run.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
