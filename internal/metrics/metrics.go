// Package metrics records evaluation outcomes for the /metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Evaluation outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

// Recorder records evaluation outcomes
type Recorder interface {
	ObserveEvaluation(outcome string, duration time.Duration)
}

// PrometheusRecorder exports evaluation counters and latency as Prometheus metrics
type PrometheusRecorder struct {
	evaluations *prometheus.CounterVec
	latency     prometheus.Histogram
}

// NewPrometheusRecorder creates a recorder and registers its collectors with reg
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mathexp",
			Name:      "evaluations_total",
			Help:      "Expression requests handled, by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mathexp",
			Name:      "evaluation_duration_seconds",
			Help:      "Time spent evaluating expressions.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}

	for _, c := range []prometheus.Collector{r.evaluations, r.latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveEvaluation implements Recorder
func (r *PrometheusRecorder) ObserveEvaluation(outcome string, duration time.Duration) {
	r.evaluations.WithLabelValues(outcome).Inc()
	if outcome != OutcomeFallback {
		r.latency.Observe(duration.Seconds())
	}
}

// NopRecorder discards all observations
type NopRecorder struct{}

// ObserveEvaluation implements Recorder
func (NopRecorder) ObserveEvaluation(string, time.Duration) {}
