package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/servease/servease-backend/internal/pricing"
	"github.com/servease/servease-backend/pkg/db/models"
)

// Service exposes catalog reads for quoting and cart mutations.
type Service interface {
	GetItem(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error)
	ListItems(ctx context.Context) ([]models.CatalogItem, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListItems(ctx context.Context) ([]models.CatalogItem, error) {
	return s.repo.ListActive(ctx)
}

// Schedule maps a listing's rate columns onto the quoter's schedule shape.
func Schedule(item *models.CatalogItem) pricing.RateSchedule {
	return pricing.RateSchedule{
		BaseRateCents:    item.BaseRateCents,
		DailyRateCents:   item.DailyRateCents,
		WeeklyRateCents:  item.WeeklyRateCents,
		MonthlyRateCents: item.MonthlyRateCents,
		PerKmRateCents:   item.PerKmRateCents,
		PerKgRateCents:   item.PerKgRateCents,
		MinimumUnits:     item.MinimumUnits,
		MaximumUnits:     item.MaximumUnits,
	}
}
