package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the orders module.
type Metrics struct {
	// Transition requests by source status, target status and result
	Transitions *prometheus.CounterVec

	// Dashboard build latency including backend fan-out
	DashboardLatency prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "minimarket_order_transitions_total",
			Help: "Order status transition requests by from, to and result",
		}, []string{"from", "to", "result"}), // result: "applied", "illegal", "conflict", "error"

		DashboardLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "minimarket_admin_dashboard_duration_seconds",
			Help:    "Duration of admin dashboard aggregation",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

func (m *Metrics) IncrementTransition(from, to, result string) {
	if m != nil {
		m.Transitions.WithLabelValues(from, to, result).Inc()
	}
}

func (m *Metrics) ObserveDashboardLatency(d time.Duration) {
	if m != nil {
		m.DashboardLatency.Observe(d.Seconds())
	}
}
