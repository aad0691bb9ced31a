package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OutOfRangeError reports a requested duration/measurement outside the
// schedule bounds. The quoter refuses to clamp: silently rebilling a
// different duration would be a correctness bug, not a UX nicety.
type OutOfRangeError struct {
	Requested    decimal.Decimal
	MinimumUnits int
	MaximumUnits int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("requested units %s outside allowed range [%d, %d]", e.Requested.String(), e.MinimumUnits, e.MaximumUnits)
}

// InvalidMeasurementError reports a negative distance, weight or duration.
type InvalidMeasurementError struct {
	Field string
	Value decimal.Decimal
}

func (e *InvalidMeasurementError) Error() string {
	return fmt.Sprintf("%s must not be negative, got %s", e.Field, e.Value.String())
}

// InvalidScheduleError reports a rate schedule that violates its own invariants.
type InvalidScheduleError struct {
	Reason string
}

func (e *InvalidScheduleError) Error() string {
	return fmt.Sprintf("invalid rate schedule: %s", e.Reason)
}
