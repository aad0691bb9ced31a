package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records pricing and checkout activity.
type EngineMetrics struct {
	quotes    *prometheus.CounterVec
	cartOps   *prometheus.CounterVec
	checkouts *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotes_total",
		Help: "Price quotes computed, labeled by service kind and outcome.",
	}, []string{"kind", "outcome"})
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations, labeled by operation.",
	}, []string{"op"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Checkout submissions, labeled by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(quotes, cartOps, checkouts)
	return &EngineMetrics{
		quotes:    quotes,
		cartOps:   cartOps,
		checkouts: checkouts,
	}
}

// IncQuote counts one quote computation.
func (e *EngineMetrics) IncQuote(kind, outcome string) {
	if e == nil || e.quotes == nil {
		return
	}
	e.quotes.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

// IncCartMutation counts one cart mutation.
func (e *EngineMetrics) IncCartMutation(op string) {
	if e == nil || e.cartOps == nil {
		return
	}
	e.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncCheckout counts one checkout submission attempt.
func (e *EngineMetrics) IncCheckout(outcome string) {
	if e == nil || e.checkouts == nil {
		return
	}
	e.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}
