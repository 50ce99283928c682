package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the cart module.
type Metrics struct {
	// Mutations by operation and outcome (applied or the rejection reason)
	Mutations *prometheus.CounterVec

	// Stock snapshots that could not be fetched from the backend
	StockFetchFailures prometheus.Counter

	// Lines found over their ceiling after a stock refresh
	LinesOverCeiling prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Mutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "minimarket_cart_mutations_total",
			Help: "Cart mutations by operation and outcome",
		}, []string{"op", "outcome"}),

		StockFetchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minimarket_cart_stock_fetch_failures_total",
			Help: "Branch stock snapshots that failed to load",
		}),

		LinesOverCeiling: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minimarket_cart_lines_over_ceiling_total",
			Help: "Cart lines whose quantity exceeded fresh stock after a refresh",
		}),
	}
}

func (m *Metrics) IncrementMutation(op, outcome string) {
	if m != nil {
		m.Mutations.WithLabelValues(op, outcome).Inc()
	}
}

func (m *Metrics) IncrementStockFetchFailure() {
	if m != nil {
		m.StockFetchFailures.Inc()
	}
}

func (m *Metrics) AddLinesOverCeiling(n int) {
	if m != nil && n > 0 {
		m.LinesOverCeiling.Add(float64(n))
	}
}
