package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	PlansTotal *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		PlansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "discountgate_advisory_plans_total",
			Help: "Advisory plans computed, by resulting state",
		}, []string{"state"}),
	}
}

func (m *Metrics) ObservePlan(state string) {
	m.PlansTotal.WithLabelValues(state).Inc()
}
