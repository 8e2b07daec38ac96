package ports

import (
	"context"

	"github.com/lbsshop/storefront-api/internal/core/domain"
)

// Caller identifies who invokes a use case.
type Caller struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}

// CanAccess reports whether the caller may act on resources owned by userID.
func (c Caller) CanAccess(userID string) bool {
	return c.IsAdmin() || (c.UserID != "" && c.UserID == userID)
}

// RegisterInput carries sign-up data.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// AuthResult is returned by successful sign-up and login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService covers the credential store and session issuance.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	AdminLogin(ctx context.Context, email, password string) (*AuthResult, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	EnsureAdmin(ctx context.Context, email, password, name string) error
}

// UpdateProfileInput carries a partial profile update.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

// UserService exposes user profiles.
type UserService interface {
	List(ctx context.Context, caller Caller) ([]*domain.User, error)
	Get(ctx context.Context, caller Caller, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, caller Caller, userID string, in UpdateProfileInput) (*domain.User, error)
}

// CreateProductInput carries the fields of a new product.
type CreateProductInput struct {
	Name        string
	Price       float64
	Category    string
	Description string
	Stock       int
	ImageRef    string
}

// CatalogService manages the product catalog.
type CatalogService interface {
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// CategoryService manages product categories.
type CategoryService interface {
	Create(ctx context.Context, name string) (*domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, id, name string) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// CartService manages per-user carts.
type CartService interface {
	Get(ctx context.Context, caller Caller, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, caller Caller, userID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, caller Caller, userID, productID string) (*domain.Cart, error)
}

// OrderItemInput is one line of a submitted cart snapshot.
type OrderItemInput struct {
	ProductID string
	Name      string
	Price     float64
	Quantity  int
}

// CreateOrderInput carries the cart snapshot. When Items is empty the caller's
// stored cart is used.
type CreateOrderInput struct {
	Items []OrderItemInput
}

// OrderService is the order lifecycle and payment confirmation workflow.
type OrderService interface {
	Create(ctx context.Context, caller Caller, in CreateOrderInput) (*domain.Order, error)
	Get(ctx context.Context, caller Caller, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, caller Caller, userID string) ([]*domain.Order, error)
	ListAll(ctx context.Context, caller Caller) ([]*domain.Order, error)
	SetStatus(ctx context.Context, caller Caller, id string, status domain.OrderStatus) (*domain.Order, error)
	ConfirmPayment(ctx context.Context, caller Caller, id string) (*domain.Order, error)
	VerifyArtifact(ctx context.Context, payload string) (*domain.PaymentProof, error)
}

// StatsService aggregates read-only dashboard figures.
type StatsService interface {
	Summary(ctx context.Context, caller Caller) (*domain.Stats, error)
}
