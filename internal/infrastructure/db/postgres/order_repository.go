package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lbsshop/storefront-api/internal/core/domain"
)

const orderColumns = `id, user_id, items, total, status, created_at, updated_at, payment_artifact`

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o        domain.Order
		items    []byte
		artifact []byte
		status   string
	)
	if err := row.Scan(&o.ID, &o.UserID, &items, &o.Total, &status, &o.CreatedAt, &o.UpdatedAt, &artifact); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	if len(artifact) > 0 {
		o.PaymentArtifact = &domain.PaymentArtifact{}
		if err := json.Unmarshal(artifact, o.PaymentArtifact); err != nil {
			return nil, fmt.Errorf("decode payment artifact: %w", err)
		}
	}
	return &o, nil
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	artifact, err := encodeArtifact(o.PaymentArtifact)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, o.UserID, string(items), o.Total, string(o.Status), o.CreatedAt, o.UpdatedAt, artifact,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// UpdateStatus is a single conditional UPDATE; zero affected rows means the
// order is missing or its state moved on.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, artifact *domain.PaymentArtifact) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	encoded, err := encodeArtifact(artifact)
	if err != nil {
		return nil, err
	}

	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`UPDATE orders
		 SET status = $3, updated_at = $4, payment_artifact = COALESCE($5::jsonb, payment_artifact)
		 WHERE id = $1 AND status = $2 AND ($5::jsonb IS NULL OR payment_artifact IS NULL)
		 RETURNING `+orderColumns,
		id, string(from), string(to), time.Now().UTC(), encoded,
	))
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if !exists {
		return nil, domain.ErrOrderNotFound
	}
	return nil, domain.ErrStatusConflict
}

func (r *OrderRepository) Summary(ctx context.Context) (int64, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		count   int64
		revenue float64
	)
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(total), 0) FROM orders`).Scan(&count, &revenue)
	if err != nil {
		return 0, 0, fmt.Errorf("order summary: %w", err)
	}
	return count, revenue, nil
}

// encodeArtifact returns nil for a nil artifact so it is stored as SQL NULL.
func encodeArtifact(a *domain.PaymentArtifact) (any, error) {
	if a == nil {
		return nil, nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode payment artifact: %w", err)
	}
	return string(raw), nil
}
