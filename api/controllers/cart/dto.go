package cart

import (
	"github.com/google/uuid"

	cartsvc "github.com/servease/servease-backend/internal/cart"
	checkoutsvc "github.com/servease/servease-backend/internal/checkout"
	"github.com/servease/servease-backend/internal/pricing"
)

// LineView is a cart line as exposed to clients.
type LineView struct {
	ItemID         uuid.UUID               `json:"itemId"`
	Quantity       int                     `json:"quantity"`
	AvailableStock int                     `json:"availableStock"`
	UnitContext    pricing.ContextEnvelope `json:"unitContext"`
}

// CartView wraps the full cart payload. Clamped reports that the last
// mutation was capped at available stock so clients can warn the user.
type CartView struct {
	Lines   []LineView `json:"lines"`
	Count   int        `json:"count"`
	Clamped bool       `json:"clamped,omitempty"`
}

// QuotedLineView is a cart line with its priced quote attached.
type QuotedLineView struct {
	ItemID         uuid.UUID `json:"itemId"`
	Quantity       int       `json:"quantity"`
	TotalCents     int64     `json:"totalCents"`
	LineTotalCents int64     `json:"lineTotalCents"`
}

// TotalView is the assembled order total for the current cart.
type TotalView struct {
	SubtotalCents          int64            `json:"subtotalCents"`
	DeliveryFeeCents       int64            `json:"deliveryFeeCents"`
	WaivedDeliveryFeeCents int64            `json:"waivedDeliveryFeeCents,omitempty"`
	DiscountCents          int64            `json:"discountCents"`
	SecurityDepositCents   int64            `json:"securityDepositCents"`
	GrandTotalCents        int64            `json:"grandTotalCents"`
	AppliedPromotion       string           `json:"appliedPromotion,omitempty"`
	PromotionError         string           `json:"promotionError,omitempty"`
	Lines                  []QuotedLineView `json:"lines"`
}

func newCartView(lines []cartsvc.LineItem) CartView {
	view := CartView{Lines: make([]LineView, 0, len(lines))}
	for _, line := range lines {
		envelope, err := pricing.EncodeContext(line.Context)
		if err != nil {
			envelope = pricing.ContextEnvelope{}
		}
		view.Lines = append(view.Lines, LineView{
			ItemID:         line.ItemID,
			Quantity:       line.Quantity,
			AvailableStock: line.AvailableStock,
			UnitContext:    envelope,
		})
	}
	view.Count = len(view.Lines)
	return view
}

func newTotalView(total *checkoutsvc.OrderTotal) TotalView {
	view := TotalView{
		SubtotalCents:          total.SubtotalCents,
		DeliveryFeeCents:       total.DeliveryFeeCents,
		WaivedDeliveryFeeCents: total.WaivedDeliveryFeeCents,
		DiscountCents:          total.DiscountCents,
		SecurityDepositCents:   total.SecurityDepositCents,
		GrandTotalCents:        total.GrandTotalCents,
		AppliedPromotion:       total.AppliedPromotion,
		PromotionError:         string(total.PromotionError),
		Lines:                  make([]QuotedLineView, 0, len(total.Lines)),
	}
	for _, line := range total.Lines {
		view.Lines = append(view.Lines, QuotedLineView{
			ItemID:         line.Item.ItemID,
			Quantity:       line.Item.Quantity,
			TotalCents:     line.Quote.TotalCents,
			LineTotalCents: line.LineTotalCents,
		})
	}
	return view
}
