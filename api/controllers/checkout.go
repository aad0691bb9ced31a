package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/servease/servease-backend/api/middleware"
	"github.com/servease/servease-backend/api/responses"
	"github.com/servease/servease-backend/api/validators"
	checkoutsvc "github.com/servease/servease-backend/internal/checkout"
	"github.com/servease/servease-backend/pkg/db/models"
	pkgerrors "github.com/servease/servease-backend/pkg/errors"
	"github.com/servease/servease-backend/pkg/logger"
	"github.com/servease/servease-backend/pkg/metrics"
)

const idempotencyKeyHeader = "Idempotency-Key"

// CheckoutRequest submits the session's cart as an order.
type CheckoutRequest struct {
	PromoCode string `json:"promoCode"`
}

// OrderLineView is a priced line as recorded on a submitted order.
type OrderLineView struct {
	CatalogItemID  uuid.UUID       `json:"catalogItemId"`
	Quantity       int             `json:"quantity"`
	UnitContext    json.RawMessage `json:"unitContext"`
	UnitTotalCents int64           `json:"unitTotalCents"`
	LineTotalCents int64           `json:"lineTotalCents"`
}

// OrderView is a submitted order as exposed to clients.
type OrderView struct {
	ID                   uuid.UUID       `json:"id"`
	Status               string          `json:"status"`
	SubtotalCents        int64           `json:"subtotalCents"`
	DeliveryFeeCents     int64           `json:"deliveryFeeCents"`
	DiscountCents        int64           `json:"discountCents"`
	SecurityDepositCents int64           `json:"securityDepositCents"`
	GrandTotalCents      int64           `json:"grandTotalCents"`
	PromotionCode        *string         `json:"promotionCode,omitempty"`
	Lines                []OrderLineView `json:"lines"`
	CreatedAt            time.Time       `json:"createdAt"`
}

func newOrderView(order *models.Order) OrderView {
	view := OrderView{
		ID:                   order.ID,
		Status:               string(order.Status),
		SubtotalCents:        order.SubtotalCents,
		DeliveryFeeCents:     order.DeliveryFeeCents,
		DiscountCents:        order.DiscountCents,
		SecurityDepositCents: order.SecurityDepositCents,
		GrandTotalCents:      order.GrandTotalCents,
		PromotionCode:        order.PromotionCode,
		Lines:                make([]OrderLineView, 0, len(order.LineItems)),
		CreatedAt:            order.CreatedAt,
	}
	for _, line := range order.LineItems {
		view.Lines = append(view.Lines, OrderLineView{
			CatalogItemID:  line.CatalogItemID,
			Quantity:       line.Quantity,
			UnitContext:    line.UnitContext,
			UnitTotalCents: line.UnitTotalCents,
			LineTotalCents: line.LineTotalCents,
		})
	}
	return view
}

// CheckoutSubmit converts the session's cart into a submitted order. An
// Idempotency-Key header makes retries return the original order.
func CheckoutSubmit(svc checkoutsvc.Service, engineMetrics *metrics.EngineMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session header is required"))
			return
		}

		var payload CheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Submit(r.Context(), checkoutsvc.SubmitInput{
			SessionID:      sessionID,
			PromoCode:      validators.SanitizeString(payload.PromoCode, 64),
			IdempotencyKey: validators.SanitizeString(r.Header.Get(idempotencyKeyHeader), 128),
		})
		if err != nil {
			engineMetrics.IncCheckout("error")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		engineMetrics.IncCheckout("ok")
		ctx := logg.WithFields(r.Context(), map[string]any{
			"order_id":          order.ID.String(),
			"grand_total_cents": order.GrandTotalCents,
		})
		logg.Info(ctx, "checkout.submitted")
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderView(order))
	}
}
