package service

import (
	"context"
	"fmt"

	"github.com/lbsshop/storefront-api/internal/core/domain"
	"github.com/lbsshop/storefront-api/internal/core/ports"
)

type CartService struct {
	carts ports.CartRepository
}

func NewCartService(carts ports.CartRepository) *CartService {
	return &CartService{carts: carts}
}

func (s *CartService) Get(ctx context.Context, caller ports.Caller, userID string) (*domain.Cart, error) {
	if !caller.CanAccess(userID) {
		return nil, domain.ErrForbidden
	}
	return s.carts.Get(ctx, userID)
}

// AddItem accumulates quantity on the user's cart. Stock is not checked.
func (s *CartService) AddItem(ctx context.Context, caller ports.Caller, userID, productID string, quantity int) (*domain.Cart, error) {
	if !caller.CanAccess(userID) {
		return nil, domain.ErrForbidden
	}
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id is required", domain.ErrValidation)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than 0", domain.ErrValidation)
	}
	return s.carts.AddItem(ctx, userID, productID, quantity)
}

func (s *CartService) RemoveItem(ctx context.Context, caller ports.Caller, userID, productID string) (*domain.Cart, error) {
	if !caller.CanAccess(userID) {
		return nil, domain.ErrForbidden
	}
	return s.carts.RemoveItem(ctx, userID, productID)
}
