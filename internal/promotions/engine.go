package promotions

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/servease/servease-backend/pkg/enums"
)

// ErrorKind marks soft failures. Promotion mistakes are expected user input,
// so they ride on the result instead of an error return.
type ErrorKind string

const (
	// ErrorKindUnknownCode is returned when the code is not in the registry.
	ErrorKindUnknownCode ErrorKind = "UNKNOWN_CODE"
)

// Code is one redeemable promotion. Value is a fraction for percentage
// promotions (0.10 is ten percent) and an amount in cents for fixed ones.
type Code struct {
	Code  string
	Kind  enums.PromotionKind
	Value decimal.Decimal
}

// Registry maps normalized codes to promotions. Lookup is case-insensitive.
type Registry map[string]Code

// NewRegistry builds a registry with normalized keys.
func NewRegistry(codes ...Code) Registry {
	registry := make(Registry, len(codes))
	for _, code := range codes {
		registry[normalize(code.Code)] = code
	}
	return registry
}

// Lookup finds a promotion regardless of the caller's casing.
func (r Registry) Lookup(code string) (Code, bool) {
	found, ok := r[normalize(code)]
	return found, ok
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Result is the outcome of applying one promotion. At most one promotion is
// active per cart; each Apply call fully supersedes any prior result, so
// callers must never sum discounts across calls.
type Result struct {
	DiscountCents    int64
	DeliveryFeeCents int64
	AppliedCode      string
	Error            ErrorKind
}

// Apply computes the discount a code produces against a subtotal and
// delivery fee. Unknown codes fail soft: zero discount, fee unchanged, and
// the error kind set for the caller to surface.
func Apply(code string, subtotalCents, deliveryFeeCents int64, registry Registry) Result {
	promo, ok := registry.Lookup(code)
	if !ok {
		return Result{
			DeliveryFeeCents: deliveryFeeCents,
			Error:            ErrorKindUnknownCode,
		}
	}

	result := Result{
		DeliveryFeeCents: deliveryFeeCents,
		AppliedCode:      promo.Code,
	}

	switch promo.Kind {
	case enums.PromotionKindPercentage:
		discount := decimal.NewFromInt(subtotalCents).Mul(promo.Value).Round(0).IntPart()
		result.DiscountCents = clampDiscount(discount, subtotalCents+deliveryFeeCents)
	case enums.PromotionKindFixed:
		result.DiscountCents = clampDiscount(promo.Value.Round(0).IntPart(), subtotalCents+deliveryFeeCents)
	case enums.PromotionKindFreeDelivery:
		// The waived fee is reported as the discount for display consistency.
		result.DiscountCents = deliveryFeeCents
		result.DeliveryFeeCents = 0
	default:
		return Result{
			DeliveryFeeCents: deliveryFeeCents,
			Error:            ErrorKindUnknownCode,
		}
	}
	return result
}

func clampDiscount(discount, ceiling int64) int64 {
	if discount < 0 {
		return 0
	}
	if discount > ceiling {
		return ceiling
	}
	return discount
}
