package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/servease/servease-backend/api/middleware"
	"github.com/servease/servease-backend/api/responses"
	"github.com/servease/servease-backend/api/validators"
	ordersrepo "github.com/servease/servease-backend/internal/orders"
	"github.com/servease/servease-backend/pkg/db/models"
	pkgerrors "github.com/servease/servease-backend/pkg/errors"
	"github.com/servease/servease-backend/pkg/logger"
	"github.com/servease/servease-backend/pkg/pagination"
)

// OrderReader is the slice of the order repository the read endpoints need.
type OrderReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListBySession(ctx context.Context, sessionID string, params pagination.Params) (*ordersrepo.SessionOrderPage, error)
}

// OrderListView is one page of a session's order history.
type OrderListView struct {
	Orders     []OrderView `json:"orders"`
	NextCursor string      `json:"nextCursor,omitempty"`
}

// OrderList returns the session's orders, newest first.
func OrderList(repo OrderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order repository unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session header is required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := repo.ListBySession(r.Context(), sessionID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := OrderListView{Orders: make([]OrderView, 0, len(page.Orders)), NextCursor: page.NextCursor}
		for i := range page.Orders {
			view.Orders = append(view.Orders, newOrderView(&page.Orders[i]))
		}
		responses.WriteSuccess(w, view)
	}
}

// OrderDetail returns a single order. Orders belonging to another session
// read as not found so order ids leak nothing across sessions.
func OrderDetail(repo OrderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order repository unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := repo.FindByID(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order.SessionID != middleware.SessionIDFromContext(r.Context()) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, newOrderView(order))
	}
}
