package pricing

// RateSchedule describes how a catalog item converts a chargeable quantity
// (days, kilometers, kilograms, or plain quantity) into money. Rental items
// use the daily/weekly/monthly tiers; rides and deliveries use the tariff
// columns. All amounts are integer cents.
type RateSchedule struct {
	BaseRateCents    int64
	DailyRateCents   int64
	WeeklyRateCents  *int64
	MonthlyRateCents *int64
	PerKmRateCents   int64
	PerKgRateCents   *int64

	// Inclusive bounds on the requested duration or distance.
	MinimumUnits int
	MaximumUnits int
}

const (
	daysPerMonth = 30
	daysPerWeek  = 7
)

// Validate enforces the schedule invariants: non-negative rates and
// minimum <= maximum.
func (s RateSchedule) Validate() error {
	if s.MinimumUnits > s.MaximumUnits {
		return &InvalidScheduleError{Reason: "minimum units exceed maximum units"}
	}
	if s.BaseRateCents < 0 || s.DailyRateCents < 0 || s.PerKmRateCents < 0 {
		return &InvalidScheduleError{Reason: "rates must be non-negative"}
	}
	if s.WeeklyRateCents != nil && *s.WeeklyRateCents < 0 {
		return &InvalidScheduleError{Reason: "weekly rate must be non-negative"}
	}
	if s.MonthlyRateCents != nil && *s.MonthlyRateCents < 0 {
		return &InvalidScheduleError{Reason: "monthly rate must be non-negative"}
	}
	if s.PerKgRateCents != nil && *s.PerKgRateCents < 0 {
		return &InvalidScheduleError{Reason: "per-kg rate must be non-negative"}
	}
	return nil
}
