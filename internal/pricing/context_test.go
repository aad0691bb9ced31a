package pricing

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRentalContextUnits(t *testing.T) {
	t.Parallel()

	explicit := RentalContext{TotalUnits: 14}
	if explicit.Units() != 14 {
		t.Fatalf("explicit units should win, got %d", explicit.Units())
	}

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	derived := RentalContext{StartDate: start, EndDate: start.AddDate(0, 0, 5)}
	if derived.Units() != 5 {
		t.Fatalf("expected 5 derived days, got %d", derived.Units())
	}

	sameDay := RentalContext{StartDate: start, EndDate: start}
	if sameDay.Units() != 1 {
		t.Fatalf("same-day rental should bill one day, got %d", sameDay.Units())
	}
}

func TestContextEnvelopeRoundTrip(t *testing.T) {
	t.Parallel()

	contexts := []UnitContext{
		RentalContext{TotalUnits: 12},
		TaxiContext{DistanceKm: decimal.NewFromFloat(7.5)},
		DeliveryContext{DistanceKm: decimal.NewFromInt(3), WeightKg: decimal.NewFromFloat(1.2)},
		ProductContext{},
	}

	for _, ctx := range contexts {
		envelope, err := EncodeContext(ctx)
		if err != nil {
			t.Fatalf("encode %T: %v", ctx, err)
		}

		raw, err := json.Marshal(envelope)
		if err != nil {
			t.Fatalf("marshal envelope: %v", err)
		}
		var decodedEnvelope ContextEnvelope
		if err := json.Unmarshal(raw, &decodedEnvelope); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}

		decoded, err := DecodeContext(decodedEnvelope)
		if err != nil {
			t.Fatalf("decode %T: %v", ctx, err)
		}
		if decoded.Kind() != ctx.Kind() {
			t.Fatalf("kind mismatch: %s vs %s", decoded.Kind(), ctx.Kind())
		}
	}
}

func TestDecodeContextUnknownKind(t *testing.T) {
	t.Parallel()

	if _, err := DecodeContext(ContextEnvelope{Kind: "teleport"}); err == nil {
		t.Fatal("expected error for unknown context kind")
	}
}

func TestDecodeContextEmptyKindDefaultsToProduct(t *testing.T) {
	t.Parallel()

	ctx, err := DecodeContext(ContextEnvelope{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Kind() != ContextKindProduct {
		t.Fatalf("expected product context, got %s", ctx.Kind())
	}
}
