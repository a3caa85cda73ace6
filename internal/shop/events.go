package shop

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced   = "OrderPlaced"
	EventStockLow      = "StockLow"
	EventStockOversold = "StockOversold"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "shop-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // usually order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- per-event payloads ----

type ItemQty struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type OrderPlacedPayload struct {
	OrderID   string    `json:"order_id"`
	UserEmail string    `json:"user_email"`
	Items     []ItemQty `json:"items"`
	Total     float64   `json:"total"`
}

// StockAlertPayload reports stock level after a checkout decremented it.
// Reason OVERSOLD means the blind decrement drove stock below zero.
type StockAlertPayload struct {
	OrderID     string `json:"order_id,omitempty"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Stock       int    `json:"stock"`
	Reason      string `json:"reason"` // OVERSOLD | LOW_STOCK
}
