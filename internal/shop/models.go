package shop

import (
	"encoding/json"
	"time"
)

// Order is the document written at checkout. Cart lines and totals are a
// snapshot by value; later product or cart changes never touch a placed order.
type Order struct {
	ID           string          `json:"_id"`
	UserEmail    string          `json:"userEmail"`
	Cart         []CartItem      `json:"cart"`
	Subtotal     float64         `json:"subtotal"`
	ShippingCost float64         `json:"shippingCost"`
	Total        float64         `json:"total"`
	BillingInfo  json.RawMessage `json:"billingInfo,omitempty"`
	ShippingInfo json.RawMessage `json:"shippingInfo,omitempty"`
	PaymentInfo  json.RawMessage `json:"paymentInfo,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// CartItem is one purchased line. "_id" references the product.
type CartItem struct {
	ProductID string  `json:"_id"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Quantity  int     `json:"quantity"`
}

// CartEntry is a live cart row, created when a user adds a product and
// destroyed in bulk (by email) when their order is placed.
type CartEntry struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	ProductID string    `json:"productId"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
