package checkout

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/servease/servease-backend/internal/cart"
	"github.com/servease/servease-backend/internal/pricing"
	"github.com/servease/servease-backend/internal/promotions"
	"github.com/servease/servease-backend/pkg/config"
	"github.com/servease/servease-backend/pkg/enums"
)

func int64Ptr(v int64) *int64 { return &v }

func rentalLine(quantity, units int) Line {
	return Line{
		Item: cart.LineItem{
			ItemID:         uuid.New(),
			Quantity:       quantity,
			AvailableStock: 5,
			Context:        pricing.RentalContext{TotalUnits: units},
		},
		Schedule: pricing.RateSchedule{
			DailyRateCents:  100,
			WeeklyRateCents: int64Ptr(600),
			MinimumUnits:    1,
			MaximumUnits:    90,
		},
	}
}

func TestAssembleEndToEnd(t *testing.T) {
	t.Parallel()

	// One rental line: 10 days at weekly 600 + 3*100 = 900, quantity 2.
	total, err := Assemble([]Line{rentalLine(2, 10)}, FlatFee(50), "", nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if total.SubtotalCents != 1800 {
		t.Fatalf("expected subtotal 1800, got %d", total.SubtotalCents)
	}
	if total.DeliveryFeeCents != 50 {
		t.Fatalf("expected flat fee 50, got %d", total.DeliveryFeeCents)
	}
	if total.DiscountCents != 0 {
		t.Fatalf("expected no discount, got %d", total.DiscountCents)
	}
	if total.GrandTotalCents != 1850 {
		t.Fatalf("expected grand total 1850, got %d", total.GrandTotalCents)
	}
}

func TestAssembleDeterministic(t *testing.T) {
	t.Parallel()

	line := rentalLine(2, 10)
	first, err := Assemble([]Line{line}, FlatFee(50), "", nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	second, err := Assemble([]Line{line}, FlatFee(50), "", nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if first.GrandTotalCents != second.GrandTotalCents || first.SubtotalCents != second.SubtotalCents {
		t.Fatalf("identical inputs diverged: %+v vs %+v", first, second)
	}
}

func TestAssembleHeterogeneousSchedules(t *testing.T) {
	t.Parallel()

	taxi := Line{
		Item: cart.LineItem{
			ItemID:         uuid.New(),
			Quantity:       1,
			AvailableStock: 1,
			Context:        pricing.TaxiContext{DistanceKm: decimal.NewFromInt(10)},
		},
		Schedule: pricing.RateSchedule{BaseRateCents: 40, PerKmRateCents: 12, MaximumUnits: 100},
	}

	total, err := Assemble([]Line{rentalLine(1, 10), taxi}, NoDelivery(), "", nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	// 900 + 160 with no delivery fee.
	if total.SubtotalCents != 1060 || total.GrandTotalCents != 1060 {
		t.Fatalf("unexpected totals %+v", total)
	}
}

func TestAssembleSecurityDeposit(t *testing.T) {
	t.Parallel()

	line := rentalLine(2, 10)
	line.DepositCents = 500

	total, err := Assemble([]Line{line}, FlatFee(50), "", nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if total.SecurityDepositCents != 1000 {
		t.Fatalf("expected deposit 1000, got %d", total.SecurityDepositCents)
	}
	if total.GrandTotalCents != 2850 {
		t.Fatalf("expected grand total 2850, got %d", total.GrandTotalCents)
	}
}

func TestAssembleWithPercentagePromotion(t *testing.T) {
	t.Parallel()

	registry := promotions.NewRegistry(
		promotions.Code{Code: "WELCOME10", Kind: enums.PromotionKindPercentage, Value: decimal.NewFromFloat(0.10)},
	)
	total, err := Assemble([]Line{rentalLine(2, 10)}, FlatFee(50), "WELCOME10", registry)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if total.DiscountCents != 180 {
		t.Fatalf("expected discount 180, got %d", total.DiscountCents)
	}
	if total.GrandTotalCents != 1670 {
		t.Fatalf("expected grand total 1670, got %d", total.GrandTotalCents)
	}
}

func TestAssembleWithFreeDelivery(t *testing.T) {
	t.Parallel()

	registry := promotions.NewRegistry(
		promotions.Code{Code: "FREESHIP", Kind: enums.PromotionKindFreeDelivery},
	)
	total, err := Assemble([]Line{rentalLine(2, 10)}, FlatFee(50), "FREESHIP", registry)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	// The fee field keeps the rule's value; the waiver rides on the
	// discount and the waived-fee breakout.
	if total.DeliveryFeeCents != 50 {
		t.Fatalf("expected rule fee 50 reported, got %d", total.DeliveryFeeCents)
	}
	if total.WaivedDeliveryFeeCents != 50 {
		t.Fatalf("expected waived fee 50, got %d", total.WaivedDeliveryFeeCents)
	}
	if total.DiscountCents != 50 {
		t.Fatalf("expected discount 50, got %d", total.DiscountCents)
	}
	// The waived fee must not be deducted twice.
	if total.GrandTotalCents != 1800 {
		t.Fatalf("expected grand total 1800, got %d", total.GrandTotalCents)
	}
	sum := total.SubtotalCents + total.DeliveryFeeCents + total.SecurityDepositCents - total.DiscountCents
	if sum != total.GrandTotalCents {
		t.Fatalf("reported fields sum to %d, grand total is %d", sum, total.GrandTotalCents)
	}
}

func TestAssembleUnknownPromotionFailsSoft(t *testing.T) {
	t.Parallel()

	total, err := Assemble([]Line{rentalLine(2, 10)}, FlatFee(50), "NOPE", promotions.NewRegistry())
	if err != nil {
		t.Fatalf("soft failure must not abort assembly: %v", err)
	}
	if total.PromotionError != promotions.ErrorKindUnknownCode {
		t.Fatalf("expected UNKNOWN_CODE, got %q", total.PromotionError)
	}
	if total.GrandTotalCents != 1850 {
		t.Fatalf("expected unaffected total 1850, got %d", total.GrandTotalCents)
	}
}

func TestAssembleGrandTotalNeverNegative(t *testing.T) {
	t.Parallel()

	registry := promotions.NewRegistry(
		promotions.Code{Code: "MEGA", Kind: enums.PromotionKindFixed, Value: decimal.NewFromInt(1_000_000)},
	)
	total, err := Assemble([]Line{rentalLine(1, 1)}, FlatFee(50), "MEGA", registry)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if total.GrandTotalCents < 0 {
		t.Fatalf("grand total went negative: %d", total.GrandTotalCents)
	}
}

func TestAssemblePropagatesQuoteErrors(t *testing.T) {
	t.Parallel()

	bad := rentalLine(1, 500)
	_, err := Assemble([]Line{bad}, FlatFee(50), "", nil)
	var oor *pricing.OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("expected quote error to propagate, got %v", err)
	}
}

func TestDeliveryRules(t *testing.T) {
	t.Parallel()

	free := FreeAbove(100000, 5000)
	if free(100000) != 0 {
		t.Fatal("threshold subtotal should waive the fee")
	}
	if free(99999) != 5000 {
		t.Fatal("sub-threshold subtotal should pay the flat fee")
	}
	if NoDelivery()(12345) != 0 {
		t.Fatal("no-delivery rule must charge nothing")
	}
}

func TestRuleFromConfig(t *testing.T) {
	t.Parallel()

	freeAbove := RuleFromConfig(config.DeliveryConfig{Policy: "free_above", FlatFeeCents: 5000, FreeAboveCents: 100000})
	if freeAbove(200000) != 0 || freeAbove(1000) != 5000 {
		t.Fatal("free_above policy misconfigured")
	}
	flat := RuleFromConfig(config.DeliveryConfig{Policy: "flat", FlatFeeCents: 700})
	if flat(1) != 700 {
		t.Fatal("flat policy misconfigured")
	}
	none := RuleFromConfig(config.DeliveryConfig{Policy: "none"})
	if none(1) != 0 {
		t.Fatal("none policy misconfigured")
	}
}
