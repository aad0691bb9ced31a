package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func int64Ptr(v int64) *int64 { return &v }

func rentalSchedule() RateSchedule {
	return RateSchedule{
		DailyRateCents:   100,
		WeeklyRateCents:  int64Ptr(600),
		MonthlyRateCents: int64Ptr(2000),
		MinimumUnits:     1,
		MaximumUnits:     365,
	}
}

func TestQuoteRentalTierExactness(t *testing.T) {
	t.Parallel()

	// 35 days = 1 month (2000) + 5 days (500); the week tier gets no blocks.
	quote, err := QuoteRental(rentalSchedule(), 35)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.TotalCents != 2500 {
		t.Fatalf("expected total 2500, got %d", quote.TotalCents)
	}
	if len(quote.Tiers) != 2 {
		t.Fatalf("expected month+day tiers, got %+v", quote.Tiers)
	}
	if quote.Tiers[0].Label != "monthly" || quote.Tiers[0].Blocks != 1 {
		t.Fatalf("unexpected first tier %+v", quote.Tiers[0])
	}
	if quote.Tiers[1].Label != "daily" || quote.Tiers[1].AmountCents != 500 {
		t.Fatalf("unexpected second tier %+v", quote.Tiers[1])
	}
}

func TestQuoteRentalWeekAndDaySplit(t *testing.T) {
	t.Parallel()

	quote, err := QuoteRental(rentalSchedule(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1 week (600) + 3 days (300).
	if quote.TotalCents != 900 {
		t.Fatalf("expected total 900, got %d", quote.TotalCents)
	}
}

func TestQuoteRentalSkipsAbsentTiers(t *testing.T) {
	t.Parallel()

	schedule := RateSchedule{DailyRateCents: 100, MinimumUnits: 1, MaximumUnits: 90}
	quote, err := QuoteRental(schedule, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.TotalCents != 4000 {
		t.Fatalf("all units should bill daily, got %d", quote.TotalCents)
	}
	if len(quote.Tiers) != 1 || quote.Tiers[0].Label != "daily" {
		t.Fatalf("expected a single daily tier, got %+v", quote.Tiers)
	}
}

func TestQuoteRentalOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := QuoteRental(rentalSchedule(), 400)
	var oor *OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("expected OutOfRangeError, got %v", err)
	}
	if oor.MaximumUnits != 365 {
		t.Fatalf("expected violated bound 365, got %d", oor.MaximumUnits)
	}

	if _, err := QuoteRental(rentalSchedule(), 0); err == nil {
		t.Fatal("expected error below minimum units")
	}
}

func TestQuoteRentalNegativeUnits(t *testing.T) {
	t.Parallel()

	_, err := QuoteRental(rentalSchedule(), -3)
	var im *InvalidMeasurementError
	if !errors.As(err, &im) {
		t.Fatalf("expected InvalidMeasurementError, got %v", err)
	}
}

func TestQuoteRentalMonotonicUnits(t *testing.T) {
	t.Parallel()

	// monthly <= 30*daily and weekly <= 7*daily, so totals never decrease
	// as the duration grows.
	schedule := rentalSchedule()
	prev := int64(-1)
	for units := 1; units <= 120; units++ {
		quote, err := QuoteRental(schedule, units)
		if err != nil {
			t.Fatalf("units %d: %v", units, err)
		}
		if quote.TotalCents < prev {
			t.Fatalf("total decreased at %d units: %d < %d", units, quote.TotalCents, prev)
		}
		prev = quote.TotalCents
	}
}

func TestQuoteRentalBlendedRateIsInformational(t *testing.T) {
	t.Parallel()

	quote, err := QuoteRental(rentalSchedule(), 35)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := decimal.NewFromInt(2500).DivRound(decimal.NewFromInt(35), 4)
	if !quote.BlendedUnitRate.Equal(want) {
		t.Fatalf("expected blended rate %s, got %s", want, quote.BlendedUnitRate)
	}
}

func TestQuoteTariffExactness(t *testing.T) {
	t.Parallel()

	schedule := RateSchedule{BaseRateCents: 40, PerKmRateCents: 12, MinimumUnits: 0, MaximumUnits: 100}
	quote, err := QuoteTariff(schedule, decimal.NewFromInt(10), decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.TotalCents != 160 {
		t.Fatalf("expected 40 + 10*12 = 160, got %d", quote.TotalCents)
	}
}

func TestQuoteTariffWithWeight(t *testing.T) {
	t.Parallel()

	schedule := RateSchedule{
		BaseRateCents:  500,
		PerKmRateCents: 100,
		PerKgRateCents: int64Ptr(50),
		MinimumUnits:   0,
		MaximumUnits:   50,
	}
	quote, err := QuoteTariff(schedule, decimal.NewFromInt(8), decimal.NewFromFloat(2.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 500 + 8*100 + 2.5*50 = 1425
	if quote.TotalCents != 1425 {
		t.Fatalf("expected 1425, got %d", quote.TotalCents)
	}
}

func TestQuoteTariffNegativeMeasurement(t *testing.T) {
	t.Parallel()

	schedule := RateSchedule{BaseRateCents: 40, PerKmRateCents: 12, MaximumUnits: 100}
	_, err := QuoteTariff(schedule, decimal.NewFromInt(-1), decimal.Zero)
	var im *InvalidMeasurementError
	if !errors.As(err, &im) {
		t.Fatalf("expected InvalidMeasurementError, got %v", err)
	}
	if im.Field != "distance" {
		t.Fatalf("expected distance field, got %q", im.Field)
	}
}

func TestQuoteTariffDistanceOutOfRange(t *testing.T) {
	t.Parallel()

	schedule := RateSchedule{BaseRateCents: 40, PerKmRateCents: 12, MinimumUnits: 2, MaximumUnits: 20}
	_, err := QuoteTariff(schedule, decimal.NewFromInt(25), decimal.Zero)
	var oor *OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("expected OutOfRangeError, got %v", err)
	}
}

func TestQuoteContextDispatch(t *testing.T) {
	t.Parallel()

	rental, err := QuoteContext(rentalSchedule(), RentalContext{TotalUnits: 10})
	if err != nil {
		t.Fatalf("rental: %v", err)
	}
	if rental.TotalCents != 900 {
		t.Fatalf("rental context total mismatch: %d", rental.TotalCents)
	}

	taxi, err := QuoteContext(RateSchedule{BaseRateCents: 40, PerKmRateCents: 12, MaximumUnits: 100}, TaxiContext{DistanceKm: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("taxi: %v", err)
	}
	if taxi.TotalCents != 160 {
		t.Fatalf("taxi context total mismatch: %d", taxi.TotalCents)
	}

	product, err := QuoteContext(RateSchedule{BaseRateCents: 2599, MaximumUnits: 1}, ProductContext{})
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	if product.TotalCents != 2599 {
		t.Fatalf("product context total mismatch: %d", product.TotalCents)
	}
}

func TestQuoteDeterminism(t *testing.T) {
	t.Parallel()

	first, err := QuoteRental(rentalSchedule(), 45)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := QuoteRental(rentalSchedule(), 45)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TotalCents != second.TotalCents || !first.BlendedUnitRate.Equal(second.BlendedUnitRate) {
		t.Fatalf("identical inputs produced different quotes: %+v vs %+v", first, second)
	}
}

func TestValidateSchedule(t *testing.T) {
	t.Parallel()

	bad := RateSchedule{MinimumUnits: 5, MaximumUnits: 2}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected invalid schedule error for min > max")
	}

	negative := RateSchedule{DailyRateCents: -1, MaximumUnits: 10}
	if err := negative.Validate(); err == nil {
		t.Fatal("expected invalid schedule error for negative rate")
	}
}
