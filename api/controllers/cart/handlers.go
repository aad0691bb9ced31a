package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/servease/servease-backend/api/middleware"
	"github.com/servease/servease-backend/api/responses"
	"github.com/servease/servease-backend/api/validators"
	cartsvc "github.com/servease/servease-backend/internal/cart"
	catalogsvc "github.com/servease/servease-backend/internal/catalog"
	checkoutsvc "github.com/servease/servease-backend/internal/checkout"
	"github.com/servease/servease-backend/internal/pricing"
	pkgerrors "github.com/servease/servease-backend/pkg/errors"
	"github.com/servease/servease-backend/pkg/logger"
	"github.com/servease/servease-backend/pkg/metrics"
)

// AddItemRequest puts a listing into the cart.
type AddItemRequest struct {
	ItemID      uuid.UUID               `json:"itemId" validate:"required"`
	Quantity    int                     `json:"quantity" validate:"required,min=1"`
	UnitContext pricing.ContextEnvelope `json:"unitContext"`
}

// UpdateItemRequest changes the quantity of a line already in the cart.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// Fetch returns the session's cart lines.
func Fetch(sessions *cartsvc.SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := loadStore(r, sessions, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store.Snapshot()))
	}
}

// AddItem merges a line into the cart, clamped to available stock.
func AddItem(sessions *cartsvc.SessionManager, catalog catalogsvc.Service, engineMetrics *metrics.EngineMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := catalog.GetItem(r.Context(), payload.ItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !item.IsActive {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "catalog item no longer available"))
			return
		}

		unitCtx, err := pricing.DecodeContext(payload.UnitContext)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit context"))
			return
		}

		store, err := loadStore(r, sessions, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		_, clamped := store.Add(item.ID, payload.Quantity, item.AvailableStock, unitCtx)
		engineMetrics.IncCartMutation("add")
		view := newCartView(store.Snapshot())
		view.Clamped = clamped
		responses.WriteSuccess(w, view)
	}
}

// UpdateItem sets a line's quantity; zero or less removes the line.
// Rehydrated lines carry a stale stock bound, so increases refresh it from
// the catalog before clamping.
func UpdateItem(sessions *cartsvc.SessionManager, catalog catalogsvc.Service, engineMetrics *metrics.EngineMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		var payload UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := loadStore(r, sessions, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Quantity <= 0 {
			store.SetQuantity(itemID, payload.Quantity)
		} else {
			item, err := catalog.GetItem(r.Context(), itemID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			store.SetQuantityWithStock(itemID, payload.Quantity, item.AvailableStock)
		}
		engineMetrics.IncCartMutation("set_quantity")
		responses.WriteSuccess(w, newCartView(store.Snapshot()))
	}
}

// RemoveItem drops a line from the cart.
func RemoveItem(sessions *cartsvc.SessionManager, engineMetrics *metrics.EngineMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		store, err := loadStore(r, sessions, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Remove(itemID)
		engineMetrics.IncCartMutation("remove")
		responses.WriteSuccess(w, newCartView(store.Snapshot()))
	}
}

// Clear empties the cart.
func Clear(sessions *cartsvc.SessionManager, engineMetrics *metrics.EngineMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := loadStore(r, sessions, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Clear()
		engineMetrics.IncCartMutation("clear")
		responses.WriteSuccess(w, newCartView(store.Snapshot()))
	}
}

// PromotionRequest applies a promotion code to the cart preview.
type PromotionRequest struct {
	Code string `json:"code" validate:"required"`
}

// ApplyPromotion previews the order total with a promotion code applied.
// Unknown codes come back as a soft promotionError field, not an HTTP error.
func ApplyPromotion(checkout checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checkout == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload PromotionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		total, err := checkout.PreviewTotal(r.Context(), sessionID, validators.SanitizeString(payload.Code, 64))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newTotalView(total))
	}
}

// Total previews the assembled order total, optionally with a promotion code.
func Total(checkout checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checkout == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promo := validators.SanitizeString(r.URL.Query().Get("promo"), 64)
		total, err := checkout.PreviewTotal(r.Context(), sessionID, promo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newTotalView(total))
	}
}

func loadStore(r *http.Request, sessions *cartsvc.SessionManager, logg *logger.Logger) (*cartsvc.Store, error) {
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart sessions unavailable")
	}
	sessionID, err := sessionFromRequest(r)
	if err != nil {
		return nil, err
	}
	return sessions.Load(r.Context(), sessionID)
}

func sessionFromRequest(r *http.Request) (string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session header is required")
	}
	return sessionID, nil
}
