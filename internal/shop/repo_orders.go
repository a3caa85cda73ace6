package shop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepo struct{ DB *pgxpool.Pool }

// InsertOrder writes the order document and returns the generated id.
// The caller sets CreatedAt; cart and the info blobs land in jsonb columns.
func (r *OrderRepo) InsertOrder(ctx context.Context, o *Order) (string, error) {
	cart, err := json.Marshal(o.Cart)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}

	id := uuid.NewString()
	_, err = r.DB.Exec(ctx, `
		INSERT INTO orders(id, user_email, cart, subtotal, shipping_cost, total,
		                   billing_info, shipping_info, payment_info, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		id, o.UserEmail, cart, o.Subtotal, o.ShippingCost, o.Total,
		rawOrNil(o.BillingInfo), rawOrNil(o.ShippingInfo), rawOrNil(o.PaymentInfo),
		o.CreatedAt,
	)
	if err != nil {
		return "", err
	}
	o.ID = id
	return id, nil
}

func (r *OrderRepo) GetOrder(ctx context.Context, id string) (*Order, error) {
	var (
		o                          Order
		cart                       []byte
		billing, shipping, payment []byte
	)
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_email, cart, subtotal, shipping_cost, total,
		       billing_info, shipping_info, payment_info, created_at
		FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.UserEmail, &cart, &o.Subtotal, &o.ShippingCost, &o.Total,
			&billing, &shipping, &payment, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cart, &o.Cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	o.BillingInfo = json.RawMessage(billing)
	o.ShippingInfo = json.RawMessage(shipping)
	o.PaymentInfo = json.RawMessage(payment)
	return &o, nil
}

// jsonb columns are nullable; an empty RawMessage must insert as NULL.
func rawOrNil(r json.RawMessage) any {
	if len(r) == 0 {
		return nil
	}
	return []byte(r)
}
