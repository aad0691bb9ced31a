package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/servease/servease-backend/api/responses"
	"github.com/servease/servease-backend/api/validators"
	catalogsvc "github.com/servease/servease-backend/internal/catalog"
	"github.com/servease/servease-backend/internal/pricing"
	pkgerrors "github.com/servease/servease-backend/pkg/errors"
	"github.com/servease/servease-backend/pkg/logger"
	"github.com/servease/servease-backend/pkg/metrics"
)

// QuoteRequest asks for a price on one listing with a measurement context.
type QuoteRequest struct {
	ItemID      uuid.UUID               `json:"itemId" validate:"required"`
	UnitContext pricing.ContextEnvelope `json:"unitContext"`
}

// QuoteView is the computed price breakdown.
type QuoteView struct {
	ItemID          uuid.UUID          `json:"itemId"`
	Kind            string             `json:"kind"`
	Units           int                `json:"units"`
	TotalCents      int64              `json:"totalCents"`
	BlendedUnitRate decimal.Decimal    `json:"blendedUnitRate"`
	Tiers           []pricing.TierLine `json:"tiers,omitempty"`
}

// QuoteCreate prices a listing against the posted unit context.
func QuoteCreate(svc catalogsvc.Service, engineMetrics *metrics.EngineMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload QuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), payload.ItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unitCtx, err := pricing.DecodeContext(payload.UnitContext)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit context"))
			return
		}

		quote, err := pricing.QuoteContext(catalogsvc.Schedule(item), unitCtx)
		if err != nil {
			engineMetrics.IncQuote(string(item.Kind), "error")
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "quote rejected").WithDetails(map[string]any{"error": err.Error()}))
			return
		}

		engineMetrics.IncQuote(string(item.Kind), "ok")
		responses.WriteSuccess(w, QuoteView{
			ItemID:          item.ID,
			Kind:            string(item.Kind),
			Units:           quote.Units,
			TotalCents:      quote.TotalCents,
			BlendedUnitRate: quote.BlendedUnitRate,
			Tiers:           quote.Tiers,
		})
	}
}
