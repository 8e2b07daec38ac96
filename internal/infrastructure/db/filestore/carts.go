package filestore

import (
	"context"

	"github.com/lbsshop/storefront-api/internal/core/domain"
)

type CartRepository struct {
	c *collection[domain.Cart]
}

func cloneCart(c domain.Cart) *domain.Cart {
	items := make([]domain.CartItem, len(c.Items))
	copy(items, c.Items)
	return &domain.Cart{UserID: c.UserID, Items: items}
}

func (r *CartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart := domain.NewCart(userID)
	err := r.c.view(ctx, func(items []domain.Cart) error {
		for _, c := range items {
			if c.UserID == userID {
				cart = cloneCart(c)
				return nil
			}
		}
		return nil
	})
	return cart, err
}

func (r *CartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	var out *domain.Cart
	err := r.c.update(ctx, func(items []domain.Cart) ([]domain.Cart, error) {
		for i := range items {
			if items[i].UserID == userID {
				cart := cloneCart(items[i])
				cart.Add(productID, quantity)
				items[i] = *cart
				out = cloneCart(*cart)
				return items, nil
			}
		}
		cart := domain.NewCart(userID)
		cart.Add(productID, quantity)
		out = cloneCart(*cart)
		return append(items, *cart), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	out := domain.NewCart(userID)
	err := r.c.update(ctx, func(items []domain.Cart) ([]domain.Cart, error) {
		for i := range items {
			if items[i].UserID != userID {
				continue
			}
			cart := cloneCart(items[i])
			if !cart.Remove(productID) {
				out = cart
				return nil, errUnchanged
			}
			items[i] = *cart
			out = cloneCart(*cart)
			return items, nil
		}
		return nil, errUnchanged
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	return r.c.update(ctx, func(items []domain.Cart) ([]domain.Cart, error) {
		for i := range items {
			if items[i].UserID == userID {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, errUnchanged
	})
}
