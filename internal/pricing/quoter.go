package pricing

import (
	"github.com/shopspring/decimal"
)

// TierLine records one consumed pricing block for display breakdowns.
type TierLine struct {
	Label       string `json:"label"`
	Blocks      int    `json:"blocks"`
	RateCents   int64  `json:"rateCents"`
	AmountCents int64  `json:"amountCents"`
}

// Quote is the deterministic result of pricing one catalog item. TotalCents
// is the authoritative charged amount; BlendedUnitRate is informational only
// and may carry fractional cents.
type Quote struct {
	Units           int             `json:"units"`
	TotalCents      int64           `json:"totalCents"`
	BlendedUnitRate decimal.Decimal `json:"blendedUnitRate"`
	Tiers           []TierLine      `json:"tiers,omitempty"`
}

// QuoteRental prices a rental duration by greedily consuming the largest
// block first: whole months, then whole weeks, then days. Absent tiers are
// skipped and their units pushed down to the next tier.
func QuoteRental(schedule RateSchedule, units int) (*Quote, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	if units < 0 {
		return nil, &InvalidMeasurementError{Field: "units", Value: decimal.NewFromInt(int64(units))}
	}
	if units < schedule.MinimumUnits || units > schedule.MaximumUnits {
		return nil, &OutOfRangeError{
			Requested:    decimal.NewFromInt(int64(units)),
			MinimumUnits: schedule.MinimumUnits,
			MaximumUnits: schedule.MaximumUnits,
		}
	}

	remaining := units
	var total int64
	var tiers []TierLine

	if schedule.MonthlyRateCents != nil {
		months := remaining / daysPerMonth
		if months > 0 {
			amount := int64(months) * (*schedule.MonthlyRateCents)
			tiers = append(tiers, TierLine{Label: "monthly", Blocks: months, RateCents: *schedule.MonthlyRateCents, AmountCents: amount})
			total += amount
			remaining %= daysPerMonth
		}
	}

	if schedule.WeeklyRateCents != nil {
		weeks := remaining / daysPerWeek
		if weeks > 0 {
			amount := int64(weeks) * (*schedule.WeeklyRateCents)
			tiers = append(tiers, TierLine{Label: "weekly", Blocks: weeks, RateCents: *schedule.WeeklyRateCents, AmountCents: amount})
			total += amount
			remaining %= daysPerWeek
		}
	}

	if remaining > 0 {
		amount := int64(remaining) * schedule.DailyRateCents
		tiers = append(tiers, TierLine{Label: "daily", Blocks: remaining, RateCents: schedule.DailyRateCents, AmountCents: amount})
		total += amount
	}

	return &Quote{
		Units:           units,
		TotalCents:      total,
		BlendedUnitRate: blendedRate(total, units),
		Tiers:           tiers,
	}, nil
}

// QuoteTariff prices a distance/weight measurement:
// base + distance*perKm + weight*perKg. Terms default to zero when the
// schedule does not carry them.
func QuoteTariff(schedule RateSchedule, distanceKm, weightKg decimal.Decimal) (*Quote, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	if distanceKm.IsNegative() {
		return nil, &InvalidMeasurementError{Field: "distance", Value: distanceKm}
	}
	if weightKg.IsNegative() {
		return nil, &InvalidMeasurementError{Field: "weight", Value: weightKg}
	}
	minUnits := decimal.NewFromInt(int64(schedule.MinimumUnits))
	maxUnits := decimal.NewFromInt(int64(schedule.MaximumUnits))
	if distanceKm.LessThan(minUnits) || distanceKm.GreaterThan(maxUnits) {
		return nil, &OutOfRangeError{
			Requested:    distanceKm,
			MinimumUnits: schedule.MinimumUnits,
			MaximumUnits: schedule.MaximumUnits,
		}
	}

	total := decimal.NewFromInt(schedule.BaseRateCents)
	total = total.Add(distanceKm.Mul(decimal.NewFromInt(schedule.PerKmRateCents)))
	if schedule.PerKgRateCents != nil {
		total = total.Add(weightKg.Mul(decimal.NewFromInt(*schedule.PerKgRateCents)))
	}

	cents := total.Round(0).IntPart()
	units := int(distanceKm.Round(0).IntPart())
	return &Quote{
		Units:           units,
		TotalCents:      cents,
		BlendedUnitRate: blendedRate(cents, units),
	}, nil
}

// QuoteContext dispatches on the tagged context variant. Product lines bill
// the flat base rate.
func QuoteContext(schedule RateSchedule, ctx UnitContext) (*Quote, error) {
	if ctx == nil {
		ctx = ProductContext{}
	}
	switch typed := ctx.(type) {
	case RentalContext:
		return QuoteRental(schedule, typed.Units())
	case TaxiContext:
		return QuoteTariff(schedule, typed.DistanceKm, decimal.Zero)
	case DeliveryContext:
		return QuoteTariff(schedule, typed.DistanceKm, typed.WeightKg)
	case ProductContext:
		if err := schedule.Validate(); err != nil {
			return nil, err
		}
		return &Quote{
			Units:           1,
			TotalCents:      schedule.BaseRateCents,
			BlendedUnitRate: decimal.NewFromInt(schedule.BaseRateCents),
		}, nil
	default:
		return nil, &InvalidScheduleError{Reason: "unsupported unit context"}
	}
}

func blendedRate(totalCents int64, units int) decimal.Decimal {
	if units <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(totalCents).DivRound(decimal.NewFromInt(int64(units)), 4)
}
