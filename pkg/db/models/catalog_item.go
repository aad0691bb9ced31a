package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/servease/servease-backend/pkg/enums"
)

// CatalogItem is one bookable listing: a rentable asset, a taxi or delivery
// tariff, or a plain product. The rate columns mirror the pricing schedule;
// tiers left NULL are skipped by the quoter.
type CatalogItem struct {
	ID                   uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string            `gorm:"column:name;not null"`
	Kind                 enums.ServiceKind `gorm:"column:kind;type:service_kind;not null"`
	BaseRateCents        int64             `gorm:"column:base_rate_cents;not null;default:0"`
	DailyRateCents       int64             `gorm:"column:daily_rate_cents;not null;default:0"`
	WeeklyRateCents      *int64            `gorm:"column:weekly_rate_cents"`
	MonthlyRateCents     *int64            `gorm:"column:monthly_rate_cents"`
	PerKmRateCents       int64             `gorm:"column:per_km_rate_cents;not null;default:0"`
	PerKgRateCents       *int64            `gorm:"column:per_kg_rate_cents"`
	MinimumUnits         int               `gorm:"column:minimum_units;not null;default:1"`
	MaximumUnits         int               `gorm:"column:maximum_units;not null;default:365"`
	SecurityDepositCents int64             `gorm:"column:security_deposit_cents;not null;default:0"`
	AvailableStock       int               `gorm:"column:available_stock;not null;default:0"`
	IsActive             bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt            time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
