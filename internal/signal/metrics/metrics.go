package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TotalDetections        *prometheus.CounterVec
	SubscriptionDetections *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		TotalDetections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "discountgate_signal_total_detections_total",
			Help: "Order total detections by winning strategy, 'none' when all fail",
		}, []string{"strategy"}),
		SubscriptionDetections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "discountgate_signal_subscription_detections_total",
			Help: "Subscription detections by deciding source, 'none' when negative",
		}, []string{"source"}),
	}
}

func (m *Metrics) ObserveTotalDetection(strategy string) {
	if strategy == "" {
		strategy = "none"
	}
	m.TotalDetections.WithLabelValues(strategy).Inc()
}

func (m *Metrics) ObserveSubscriptionDetection(source string) {
	if source == "" {
		source = "none"
	}
	m.SubscriptionDetections.WithLabelValues(source).Inc()
}
