package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stage names used as label values
const (
	StageUpload     = "upload"
	StageTranscribe = "transcribe"
	StageGenerate   = "generate"
	StageSynthesize = "synthesize"
)

// Metrics contains all Prometheus metrics for the voice relay
type Metrics struct {
	// Chat pipeline metrics
	ChatRequests  *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec

	// Language model metrics
	TierAttempts *prometheus.CounterVec

	// Speech synthesis metrics
	TTSChunks   *prometheus.CounterVec
	TTSRequests *prometheus.CounterVec
}

// NewMetrics creates all metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ChatRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mika_chat_requests_total",
			Help: "Total number of chat requests by outcome",
		}, []string{"outcome"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mika_stage_duration_seconds",
			Help:    "Time spent in each chat pipeline stage",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"stage"}),

		TierAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mika_llm_tier_attempts_total",
			Help: "Total number of language model calls by tier and result",
		}, []string{"tier", "result"}),

		TTSChunks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mika_tts_chunks_total",
			Help: "Total number of synthesized chat chunks by result",
		}, []string{"result"}),
		TTSRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mika_tts_requests_total",
			Help: "Total number of single-shot synthesis requests by result",
		}, []string{"result"}),
	}
}

// ObserveStage records how long a stage took since start
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Result maps an error to a "success" or "failure" label value
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
