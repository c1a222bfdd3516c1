package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	stageDuration *prometheus.HistogramVec
	stageRows     *prometheus.GaugeVec
	errorsTotal   *prometheus.CounterVec
}

// New registers the pipeline metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpulse_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		stageRows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpulse_stage_rows",
				Help: "Rows produced by the last run of a pipeline stage",
			},
			[]string{"stage"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_stage_errors_total",
				Help: "Total number of failed stage runs",
			},
			[]string{"stage"},
		),
	}
	reg.MustRegister(r.stageDuration, r.stageRows, r.errorsTotal)
	return r
}

// RecordStage records a successful stage run.
func (r *Recorder) RecordStage(stage string, rows int, seconds float64) {
	r.stageDuration.WithLabelValues(stage).Observe(seconds)
	r.stageRows.WithLabelValues(stage).Set(float64(rows))
}

// RecordError records a failed stage run.
func (r *Recorder) RecordError(stage string) {
	r.errorsTotal.WithLabelValues(stage).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordStage(string, int, float64) {}
func (Nop) RecordError(string)               {}
