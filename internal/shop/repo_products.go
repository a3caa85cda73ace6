package shop

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepo struct{ DB *pgxpool.Pool }

// DecrementStock subtracts qty from a product's stock in one unconditional
// UPDATE: no existence check, no stock floor, rows-affected not inspected.
// Stock can go negative under concurrent checkouts; stockwatch reports it.
// The conditional form (AND stock >= $2, fail on zero rows) is the hardening
// path if oversells ever have to be prevented instead of observed.
func (r *ProductRepo) DecrementStock(ctx context.Context, productID string, qty int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1`,
		productID, qty)
	return err
}

func (r *ProductRepo) GetProduct(ctx context.Context, productID string) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, category, price, stock, created_at, updated_at
		FROM products WHERE id=$1`, productID).
		Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
