package filestore

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lbsshop/storefront-api/internal/core/domain"
)

type OrderRepository struct {
	c *collection[domain.Order]
}

func cloneOrder(o domain.Order) *domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	if o.PaymentArtifact != nil {
		a := *o.PaymentArtifact
		o.PaymentArtifact = &a
	}
	return &o
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	return r.c.update(ctx, func(items []domain.Order) ([]domain.Order, error) {
		return append(items, *cloneOrder(*o)), nil
	})
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var found *domain.Order
	err := r.c.view(ctx, func(items []domain.Order) error {
		for i := range items {
			if items[i].ID == id {
				found = cloneOrder(items[i])
				return nil
			}
		}
		return domain.ErrOrderNotFound
	})
	return found, err
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.list(ctx, func(o *domain.Order) bool { return o.UserID == userID })
}

func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, func(*domain.Order) bool { return true })
}

func (r *OrderRepository) list(ctx context.Context, keep func(*domain.Order) bool) ([]*domain.Order, error) {
	out := []*domain.Order{}
	err := r.c.view(ctx, func(items []domain.Order) error {
		for i := range items {
			if keep(&items[i]) {
				out = append(out, cloneOrder(items[i]))
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, artifact *domain.PaymentArtifact) (*domain.Order, error) {
	var out *domain.Order
	err := r.c.update(ctx, func(items []domain.Order) ([]domain.Order, error) {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			if items[i].Status != from || (artifact != nil && items[i].PaymentArtifact != nil) {
				return nil, domain.ErrStatusConflict
			}
			updated := cloneOrder(items[i])
			updated.Status = to
			updated.UpdatedAt = time.Now().UTC()
			if artifact != nil {
				a := *artifact
				updated.PaymentArtifact = &a
			}
			items[i] = *updated
			out = cloneOrder(*updated)
			return items, nil
		}
		return nil, domain.ErrOrderNotFound
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OrderRepository) Summary(ctx context.Context) (int64, float64, error) {
	var (
		count   int64
		revenue = decimal.Zero
	)
	err := r.c.view(ctx, func(items []domain.Order) error {
		for _, o := range items {
			count++
			revenue = revenue.Add(decimal.NewFromFloat(o.Total))
		}
		return nil
	})
	return count, revenue.Round(2).InexactFloat64(), err
}
