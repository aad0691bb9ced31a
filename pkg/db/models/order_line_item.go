package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OrderLineItem snapshots one cart line at checkout. UnitContext preserves
// the measurement the quote was computed from, so the order remains
// explainable after catalog rates change.
type OrderLineItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index:idx_order_line_items_order_id"`
	CatalogItemID  uuid.UUID       `gorm:"column:catalog_item_id;type:uuid;not null"`
	Quantity       int             `gorm:"column:quantity;not null"`
	UnitContext    json.RawMessage `gorm:"column:unit_context;type:jsonb;not null"`
	UnitTotalCents int64           `gorm:"column:unit_total_cents;not null"`
	LineTotalCents int64           `gorm:"column:line_total_cents;not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}
