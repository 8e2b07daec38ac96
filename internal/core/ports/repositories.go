package ports

import (
	"context"

	"github.com/lbsshop/storefront-api/internal/core/domain"
)

// UserRepository persists user accounts. Implementations enforce email uniqueness
// and return domain.ErrDuplicateEmail on violation.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]*domain.User, error)
	// CountByRole counts users holding role. An empty role counts every user.
	CountByRole(ctx context.Context, role string) (int64, error)
}

// ProductRepository persists catalog entries.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
	// Update replaces the stored product. Returns domain.ErrProductNotFound when absent.
	Update(ctx context.Context, p *domain.Product) error
	// Delete removes a product. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// CategoryRepository persists product categories. Names are unique.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
}

// CartRepository persists one cart per user.
type CartRepository interface {
	// Get returns the user's cart, or an empty cart when none exists.
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	// AddItem creates the cart when absent and accumulates quantity for productID.
	AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	// RemoveItem drops productID from the cart. Absent items are ignored.
	RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) error
}

// OrderRepository persists orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	// List returns every order, newest first.
	List(ctx context.Context) ([]*domain.Order, error)
	// UpdateStatus atomically moves the order from status `from` to `to`. When
	// artifact is non-nil it is stored too, and the write only applies if the order
	// has no artifact yet. It returns domain.ErrOrderNotFound for an unknown id and
	// domain.ErrStatusConflict when the stored state no longer matches.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, artifact *domain.PaymentArtifact) (*domain.Order, error)
	// Summary returns the number of orders and the sum of their totals.
	Summary(ctx context.Context) (count int64, revenue float64, err error)
}
