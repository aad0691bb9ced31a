package enums

import "fmt"

// ServiceKind identifies how a catalog item converts requested units to money.
type ServiceKind string

const (
	ServiceKindRental   ServiceKind = "rental"
	ServiceKindTaxi     ServiceKind = "taxi"
	ServiceKindDelivery ServiceKind = "delivery"
	ServiceKindProduct  ServiceKind = "product"
)

var validServiceKinds = []ServiceKind{
	ServiceKindRental,
	ServiceKindTaxi,
	ServiceKindDelivery,
	ServiceKindProduct,
}

// String implements fmt.Stringer.
func (s ServiceKind) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ServiceKind.
func (s ServiceKind) IsValid() bool {
	for _, candidate := range validServiceKinds {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseServiceKind converts raw input into a ServiceKind.
func ParseServiceKind(value string) (ServiceKind, error) {
	for _, candidate := range validServiceKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid service kind %q", value)
}
