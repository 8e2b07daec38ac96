package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lbsshop/storefront-api/internal/core/domain"
)

// CartRepository stores one row per cart line; a cart with no rows is empty.
type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadCart(ctx context.Context, q queryer, userID string) (*domain.Cart, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT product_id, quantity FROM cart_items WHERE user_id = $1 ORDER BY added_at, product_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	defer rows.Close()

	cart := domain.NewCart(userID)
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, it)
	}
	return cart, rows.Err()
}

func (r *CartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return loadCart(ctx, r.db, userID)
}

// AddItem upserts the line; concurrent adds accumulate inside the database.
func (r *CartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		userID, productID, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return loadCart(ctx, r.db, userID)
}

func (r *CartRepository) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID); err != nil {
		return nil, fmt.Errorf("remove cart item: %w", err)
	}
	return loadCart(ctx, r.db, userID)
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
