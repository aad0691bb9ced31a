package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestEngineMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewEngineMetrics(reg)
	metrics.IncQuote("rental", "ok")
	metrics.IncQuote("rental", "ok")
	metrics.IncCartMutation("add")
	metrics.IncCheckout("submitted")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "quotes_total", "kind", "rental"); err != nil {
		t.Fatalf("fetch quotes: %v", err)
	} else if got != 2 {
		t.Fatalf("expected quotes=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "cart_mutations_total", "op", "add"); err != nil {
		t.Fatalf("fetch cart mutations: %v", err)
	} else if got != 1 {
		t.Fatalf("expected mutations=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkouts_total", "outcome", "submitted"); err != nil {
		t.Fatalf("fetch checkouts: %v", err)
	} else if got != 1 {
		t.Fatalf("expected checkouts=1, got %f", got)
	}
}

func TestEngineMetricsNilRegistererIsNoop(t *testing.T) {
	t.Parallel()

	metrics := NewEngineMetrics(nil)
	metrics.IncQuote("taxi", "error")
	metrics.IncCartMutation("remove")
	metrics.IncCheckout("rejected")
}
