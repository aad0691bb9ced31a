package payloads

import (
	"github.com/google/uuid"
)

// OrderSubmittedEvent signals a checkout completed and an order was written.
type OrderSubmittedEvent struct {
	OrderID         uuid.UUID `json:"order_id"`
	SessionID       string    `json:"session_id"`
	SubtotalCents   int64     `json:"subtotal_cents"`
	GrandTotalCents int64     `json:"grand_total_cents"`
	LineCount       int       `json:"line_count"`
}

// OrderExpiredEvent is emitted when a submitted order ages out unaccepted.
type OrderExpiredEvent struct {
	OrderID   uuid.UUID `json:"order_id"`
	SessionID string    `json:"session_id"`
}

// StockDepletedEvent surfaces a listing whose available stock reached zero.
type StockDepletedEvent struct {
	CatalogItemID uuid.UUID `json:"catalog_item_id"`
	Name          string    `json:"name"`
}
