package service

import (
	"context"
	"fmt"

	"github.com/lbsshop/storefront-api/internal/core/domain"
	"github.com/lbsshop/storefront-api/internal/core/ports"
)

type StatsService struct {
	users    ports.UserRepository
	products ports.ProductRepository
	orders   ports.OrderRepository
}

func NewStatsService(users ports.UserRepository, products ports.ProductRepository, orders ports.OrderRepository) *StatsService {
	return &StatsService{users: users, products: products, orders: orders}
}

// Summary counts clients, products and orders and sums order revenue.
func (s *StatsService) Summary(ctx context.Context, caller ports.Caller) (*domain.Stats, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	clients, err := s.users.CountByRole(ctx, domain.RoleClient)
	if err != nil {
		return nil, fmt.Errorf("stats: count clients: %w", err)
	}
	allUsers, err := s.users.CountByRole(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("stats: count users: %w", err)
	}
	products, err := s.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: count products: %w", err)
	}
	orders, revenue, err := s.orders.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: orders: %w", err)
	}

	return &domain.Stats{
		TotalUsers:    clients,
		TotalProducts: products,
		TotalOrders:   orders,
		TotalRevenue:  revenue,
		Collections: domain.CollectionSizes{
			Users:    allUsers,
			Products: products,
			Orders:   orders,
		},
	}, nil
}
