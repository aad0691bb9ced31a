package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/servease/servease-backend/pkg/enums"
)

// Order is a submitted checkout. The amount columns record the assembled
// total at submission time; they are never recomputed after the fact.
type Order struct {
	ID                   uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID            string            `gorm:"column:session_id;not null;index:idx_orders_session_id"`
	Status               enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'submitted'"`
	SubtotalCents        int64             `gorm:"column:subtotal_cents;not null"`
	DeliveryFeeCents     int64             `gorm:"column:delivery_fee_cents;not null;default:0"`
	DiscountCents        int64             `gorm:"column:discount_cents;not null;default:0"`
	SecurityDepositCents int64             `gorm:"column:security_deposit_cents;not null;default:0"`
	GrandTotalCents      int64             `gorm:"column:grand_total_cents;not null"`
	PromotionCode        *string           `gorm:"column:promotion_code"`
	LineItems            []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
