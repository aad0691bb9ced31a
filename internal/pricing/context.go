package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnitContext carries the service-specific inputs a quote is computed from.
// The variants replace the loosely-typed per-service payloads of the booking
// flows with tagged types the quoter can switch over exhaustively.
type UnitContext interface {
	Kind() ContextKind
}

// ContextKind tags the UnitContext variants for serialization.
type ContextKind string

const (
	ContextKindRental   ContextKind = "rental"
	ContextKindTaxi     ContextKind = "taxi"
	ContextKindDelivery ContextKind = "delivery"
	ContextKindProduct  ContextKind = "product"
)

// RentalContext describes a rental booking window. TotalUnits wins when set;
// otherwise the day count is derived from the date range, same-day pickups
// billing a single day.
type RentalContext struct {
	StartDate  time.Time `json:"startDate,omitempty"`
	EndDate    time.Time `json:"endDate,omitempty"`
	TotalUnits int       `json:"totalUnits,omitempty"`
}

func (RentalContext) Kind() ContextKind { return ContextKindRental }

// Units resolves the billable day count for the booking.
func (c RentalContext) Units() int {
	if c.TotalUnits > 0 {
		return c.TotalUnits
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return 0
	}
	days := int(c.EndDate.Sub(c.StartDate).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}

// TaxiContext describes a ride request.
type TaxiContext struct {
	DistanceKm decimal.Decimal `json:"distanceKm"`
}

func (TaxiContext) Kind() ContextKind { return ContextKindTaxi }

// DeliveryContext describes a parcel delivery request.
type DeliveryContext struct {
	DistanceKm decimal.Decimal `json:"distanceKm"`
	WeightKg   decimal.Decimal `json:"weightKg"`
}

func (DeliveryContext) Kind() ContextKind { return ContextKindDelivery }

// ProductContext marks a plain catalog product with no extra measurement.
type ProductContext struct{}

func (ProductContext) Kind() ContextKind { return ContextKindProduct }
