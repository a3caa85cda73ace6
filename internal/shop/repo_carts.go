package shop

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CartRepo struct{ DB *pgxpool.Pool }

// DeleteByEmail empties the user's entire cart, including entries that were
// not part of the order being placed.
func (r *CartRepo) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	ct, err := r.DB.Exec(ctx, `DELETE FROM carts WHERE email=$1`, email)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
