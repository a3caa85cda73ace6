// Package checkout implements order placement: persist the order, decrement
// stock per purchased line, empty the buyer's cart. The three writes run as
// independent calls with no transaction across them; the first failure aborts
// the rest and already-completed steps stay in place. Callers must treat a
// returned error as "order may or may not exist".
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-shop-backend.git/internal/shop"
	"go.uber.org/zap"
)

var ErrInvalidOrder = errors.New("invalid order data")

// Request is the checkout payload as the storefront sends it. Totals are
// trusted verbatim and never recomputed from the cart lines; the three info
// blobs are stored without inspection.
type Request struct {
	UserEmail    string          `json:"userEmail"`
	Cart         []shop.CartItem `json:"cart"`
	Subtotal     float64         `json:"subtotal"`
	ShippingCost float64         `json:"shippingCost"`
	Total        float64         `json:"total"`
	BillingInfo  json.RawMessage `json:"billingInfo"`
	ShippingInfo json.RawMessage `json:"shippingInfo"`
	PaymentInfo  json.RawMessage `json:"paymentInfo"`
}

type OrderStore interface {
	InsertOrder(ctx context.Context, o *shop.Order) (string, error)
}

type ProductStore interface {
	DecrementStock(ctx context.Context, productID string, qty int) error
}

type CartStore interface {
	DeleteByEmail(ctx context.Context, email string) (int64, error)
}

type Service struct {
	Orders   OrderStore
	Products ProductStore
	Carts    CartStore
	Logger   *zap.Logger
}

// PlaceOrder runs the three checkout writes in order and returns the
// persisted order, id and creation timestamp included. Stock decrements are
// unconditional and the cart clear removes every entry for the buyer,
// purchased or not.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (*shop.Order, error) {
	if req.UserEmail == "" || len(req.Cart) == 0 {
		return nil, ErrInvalidOrder
	}

	order := &shop.Order{
		UserEmail:    req.UserEmail,
		Cart:         req.Cart,
		Subtotal:     req.Subtotal,
		ShippingCost: req.ShippingCost,
		Total:        req.Total,
		BillingInfo:  req.BillingInfo,
		ShippingInfo: req.ShippingInfo,
		PaymentInfo:  req.PaymentInfo,
		CreatedAt:    time.Now().UTC(),
	}

	orderID, err := s.Orders.InsertOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for _, item := range req.Cart {
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		if err := s.Products.DecrementStock(ctx, item.ProductID, qty); err != nil {
			// Order already persisted; no rollback. Cart stays untouched.
			return nil, fmt.Errorf("decrement stock for product %s: %w", item.ProductID, err)
		}
	}

	cleared, err := s.Carts.DeleteByEmail(ctx, req.UserEmail)
	if err != nil {
		return nil, fmt.Errorf("clear cart for %s: %w", req.UserEmail, err)
	}

	s.Logger.Info("order placed",
		zap.String("order_id", orderID),
		zap.String("user_email", req.UserEmail),
		zap.Int("lines", len(req.Cart)),
		zap.Float64("total", req.Total),
		zap.Int64("cart_entries_cleared", cleared),
	)
	return order, nil
}
