package checkout

import (
	"github.com/servease/servease-backend/internal/cart"
	"github.com/servease/servease-backend/internal/pricing"
	"github.com/servease/servease-backend/internal/promotions"
	"github.com/servease/servease-backend/pkg/config"
	"github.com/servease/servease-backend/pkg/enums"
)

// DeliveryRule maps an order subtotal to a delivery fee. The policy is
// injected so rentals, rides, and grocery-style orders can differ without
// touching the assembler.
type DeliveryRule func(subtotalCents int64) int64

// FlatFee charges the same fee regardless of subtotal.
func FlatFee(feeCents int64) DeliveryRule {
	return func(int64) int64 { return feeCents }
}

// FreeAbove waives the flat fee once the subtotal reaches the threshold.
func FreeAbove(thresholdCents, feeCents int64) DeliveryRule {
	return func(subtotalCents int64) int64 {
		if subtotalCents >= thresholdCents {
			return 0
		}
		return feeCents
	}
}

// NoDelivery is for orders fulfilled on site.
func NoDelivery() DeliveryRule {
	return func(int64) int64 { return 0 }
}

// RuleFromConfig resolves the configured delivery policy.
func RuleFromConfig(cfg config.DeliveryConfig) DeliveryRule {
	switch enums.DeliveryPolicy(cfg.Policy) {
	case enums.DeliveryPolicyFreeAbove:
		return FreeAbove(cfg.FreeAboveCents, cfg.FlatFeeCents)
	case enums.DeliveryPolicyNone:
		return NoDelivery()
	default:
		return FlatFee(cfg.FlatFeeCents)
	}
}

// Line pairs a cart line with the catalog data needed to price it.
type Line struct {
	Item         cart.LineItem
	Schedule     pricing.RateSchedule
	DepositCents int64
}

// QuotedLine is one priced line in an assembled total.
type QuotedLine struct {
	Item           cart.LineItem
	Quote          *pricing.Quote
	LineTotalCents int64
}

// OrderTotal is the assembled, derived total. It is recomputed on demand and
// never stored independently of its inputs.
type OrderTotal struct {
	SubtotalCents          int64
	DeliveryFeeCents       int64
	WaivedDeliveryFeeCents int64
	DiscountCents          int64
	SecurityDepositCents   int64
	GrandTotalCents        int64
	AppliedPromotion       string
	PromotionError         promotions.ErrorKind
	Lines                  []QuotedLine
}

// Assemble composes line quotes, the delivery rule, and an optional
// promotion into a final payable amount. Quoter errors propagate to the
// caller; a bad quote must not produce a plausible-looking total. The grand
// total clamps at zero even though upstream clamping should keep it there.
func Assemble(lines []Line, rule DeliveryRule, promoCode string, registry promotions.Registry) (*OrderTotal, error) {
	total := &OrderTotal{Lines: make([]QuotedLine, 0, len(lines))}

	for _, line := range lines {
		quote, err := pricing.QuoteContext(line.Schedule, line.Item.Context)
		if err != nil {
			return nil, err
		}
		lineTotal := quote.TotalCents * int64(line.Item.Quantity)
		total.Lines = append(total.Lines, QuotedLine{
			Item:           line.Item,
			Quote:          quote,
			LineTotalCents: lineTotal,
		})
		total.SubtotalCents += lineTotal
		total.SecurityDepositCents += line.DepositCents * int64(line.Item.Quantity)
	}

	if rule == nil {
		rule = NoDelivery()
	}
	ruleFee := rule(total.SubtotalCents)
	total.DeliveryFeeCents = ruleFee

	if promoCode != "" {
		result := promotions.Apply(promoCode, total.SubtotalCents, ruleFee, registry)
		total.DiscountCents = result.DiscountCents
		// The fee field keeps the rule's value so that
		// subtotal + fee + deposit - discount equals the grand total; a
		// waived fee shows up in the discount and is broken out here.
		total.WaivedDeliveryFeeCents = ruleFee - result.DeliveryFeeCents
		total.AppliedPromotion = result.AppliedCode
		total.PromotionError = result.Error
	}

	grand := total.SubtotalCents + total.DeliveryFeeCents + total.SecurityDepositCents - total.DiscountCents
	if grand < 0 {
		grand = 0
	}
	total.GrandTotalCents = grand
	return total, nil
}
