package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/servease/servease-backend/pkg/enums"
)

// Promotion is one redeemable code. Value holds a fraction for percentage
// promotions and a cent amount for fixed ones; free-delivery codes ignore it.
type Promotion struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string              `gorm:"column:code;not null;uniqueIndex:idx_promotions_code"`
	Kind      enums.PromotionKind `gorm:"column:kind;type:promotion_kind;not null"`
	Value     decimal.Decimal     `gorm:"column:value;type:numeric(12,4);not null;default:0"`
	IsActive  bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
