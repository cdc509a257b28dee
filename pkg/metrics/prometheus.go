package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	signalsIngested *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	topScore        *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		signalsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botfolio_signals_ingested_total",
				Help: "Total number of signals ingested",
			},
			[]string{"source", "type"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botfolio_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		topScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "botfolio_top_opportunity_score",
				Help: "Score of the top-ranked opportunity per symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "botfolio_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSignalIngested records an ingested signal by source and type.
func (r *Recorder) RecordSignalIngested(source, signalType string) {
	r.signalsIngested.WithLabelValues(source, signalType).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordTopScore records the current top opportunity score for a symbol.
func (r *Recorder) RecordTopScore(symbol string, score float64) {
	r.topScore.WithLabelValues(symbol).Set(score)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
