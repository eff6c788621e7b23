package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	EvaluationsTotal   *prometheus.CounterVec
	PolicyLoadFailures prometheus.Counter
	EvaluationDuration prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		EvaluationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "discountgate_policy_evaluations_total",
			Help: "Total number of policy evaluations by outcome",
		}, []string{"outcome"}),
		PolicyLoadFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "discountgate_policy_load_failures_total",
			Help: "Total number of failed policy store loads",
		}),
		EvaluationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "discountgate_policy_evaluation_duration_ms",
			Help:    "Latency of policy evaluations in milliseconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		}),
	}
}

func (m *Metrics) ObserveEvaluation(allowed bool, d time.Duration) {
	outcome := "blocked"
	if allowed {
		outcome = "allowed"
	}
	m.EvaluationsTotal.WithLabelValues(outcome).Inc()
	m.EvaluationDuration.Observe(float64(d.Microseconds()) / 1000.0)
}

func (m *Metrics) IncrementPolicyLoadFailures() {
	m.PolicyLoadFailures.Inc()
}
