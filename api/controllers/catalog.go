package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/servease/servease-backend/api/responses"
	catalogsvc "github.com/servease/servease-backend/internal/catalog"
	"github.com/servease/servease-backend/pkg/db/models"
	pkgerrors "github.com/servease/servease-backend/pkg/errors"
	"github.com/servease/servease-backend/pkg/logger"
)

// CatalogItemView is the public listing shape.
type CatalogItemView struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Kind                 string    `json:"kind"`
	BaseRateCents        int64     `json:"baseRateCents"`
	DailyRateCents       int64     `json:"dailyRateCents"`
	WeeklyRateCents      *int64    `json:"weeklyRateCents,omitempty"`
	MonthlyRateCents     *int64    `json:"monthlyRateCents,omitempty"`
	PerKmRateCents       int64     `json:"perKmRateCents"`
	PerKgRateCents       *int64    `json:"perKgRateCents,omitempty"`
	MinimumUnits         int       `json:"minimumUnits"`
	MaximumUnits         int       `json:"maximumUnits"`
	SecurityDepositCents int64     `json:"securityDepositCents"`
	AvailableStock       int       `json:"availableStock"`
}

func newCatalogItemView(item *models.CatalogItem) CatalogItemView {
	return CatalogItemView{
		ID:                   item.ID,
		Name:                 item.Name,
		Kind:                 string(item.Kind),
		BaseRateCents:        item.BaseRateCents,
		DailyRateCents:       item.DailyRateCents,
		WeeklyRateCents:      item.WeeklyRateCents,
		MonthlyRateCents:     item.MonthlyRateCents,
		PerKmRateCents:       item.PerKmRateCents,
		PerKgRateCents:       item.PerKgRateCents,
		MinimumUnits:         item.MinimumUnits,
		MaximumUnits:         item.MaximumUnits,
		SecurityDepositCents: item.SecurityDepositCents,
		AvailableStock:       item.AvailableStock,
	}
}

// CatalogList exposes the active listings.
func CatalogList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		items, err := svc.ListItems(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]CatalogItemView, 0, len(items))
		for i := range items {
			views = append(views, newCatalogItemView(&items[i]))
		}
		responses.WriteSuccess(w, views)
	}
}

// CatalogDetail exposes one listing by id.
func CatalogDetail(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		item, err := svc.GetItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCatalogItemView(item))
	}
}
