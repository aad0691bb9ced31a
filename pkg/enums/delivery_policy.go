package enums

import "fmt"

// DeliveryPolicy names the fee rule applied to an order subtotal.
type DeliveryPolicy string

const (
	DeliveryPolicyFlat      DeliveryPolicy = "flat"
	DeliveryPolicyFreeAbove DeliveryPolicy = "free_above"
	DeliveryPolicyNone      DeliveryPolicy = "none"
)

var validDeliveryPolicies = []DeliveryPolicy{
	DeliveryPolicyFlat,
	DeliveryPolicyFreeAbove,
	DeliveryPolicyNone,
}

// String implements fmt.Stringer.
func (d DeliveryPolicy) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryPolicy.
func (d DeliveryPolicy) IsValid() bool {
	for _, candidate := range validDeliveryPolicies {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryPolicy converts raw input into a DeliveryPolicy.
func ParseDeliveryPolicy(value string) (DeliveryPolicy, error) {
	for _, candidate := range validDeliveryPolicies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery policy %q", value)
}
