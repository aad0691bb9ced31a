package promotions

import (
	"context"

	"gorm.io/gorm"

	"github.com/servease/servease-backend/pkg/db/models"
	pkgerrors "github.com/servease/servease-backend/pkg/errors"
)

// Repository loads the promotion registry from the database. The engine
// itself stays a pure function; callers fetch the registry and pass it in.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// LoadRegistry pulls all active promotions as an in-memory registry.
func (r *Repository) LoadRegistry(ctx context.Context) (Registry, error) {
	var rows []models.Promotion
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load promotions")
	}

	codes := make([]Code, 0, len(rows))
	for _, row := range rows {
		codes = append(codes, Code{Code: row.Code, Kind: row.Kind, Value: row.Value})
	}
	return NewRegistry(codes...), nil
}

// Create inserts a promotion.
func (r *Repository) Create(ctx context.Context, promo *models.Promotion) (*models.Promotion, error) {
	if err := r.db.WithContext(ctx).Create(promo).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert promotion")
	}
	return promo, nil
}
