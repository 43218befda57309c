package metrics

import "github.com/prometheus/client_golang/prometheus"

// Analysis pipeline Prometheus metrics.
var (
	PipelineStagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smartcut",
			Name:      "pipeline_stages_total",
			Help:      "Total pipeline stage executions by outcome",
		},
		[]string{"stage", "status"}, // status: "completed" / "failed"
	)

	PipelineStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smartcut",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	PipelineQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "smartcut",
			Name:      "pipeline_queue_depth",
			Help:      "Number of takes waiting for analysis",
		},
	)

	TakesAnalyzedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smartcut",
			Name:      "takes_analyzed_total",
			Help:      "Total takes run through the full pipeline",
		},
		[]string{"status"}, // "completed" / "degraded" / "failed"
	)

	IndexSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "smartcut",
			Name:      "index_size",
			Help:      "Number of entries in the search index snapshot",
		},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(PipelineStagesTotal)
	prometheus.MustRegister(PipelineStageDuration)
	prometheus.MustRegister(PipelineQueueDepth)
	prometheus.MustRegister(TakesAnalyzedTotal)
	prometheus.MustRegister(IndexSize)
	pipelineMetricsRegistered = true
}
