package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lbsshop/storefront-api/internal/core/domain"
	"github.com/lbsshop/storefront-api/internal/core/ports"
)

const (
	sourceSnapshot = "snapshot"
	sourceCart     = "cart"
)

// OrderOptions tunes the order workflow.
type OrderOptions struct {
	// StrictPricing re-prices submitted lines from the catalog and rejects
	// unknown, inactive or understocked products. Nothing is reserved.
	StrictPricing bool
}

type OrderService struct {
	orders    ports.OrderRepository
	carts     ports.CartRepository
	products  ports.ProductRepository
	artifacts ports.ArtifactIssuer
	recorder  OrderRecorder
	opts      OrderOptions
	log       zerolog.Logger
	now       func() time.Time
}

func NewOrderService(
	orders ports.OrderRepository,
	carts ports.CartRepository,
	products ports.ProductRepository,
	artifacts ports.ArtifactIssuer,
	recorder OrderRecorder,
	opts OrderOptions,
	log zerolog.Logger,
) *OrderService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &OrderService{
		orders:    orders,
		carts:     carts,
		products:  products,
		artifacts: artifacts,
		recorder:  recorder,
		opts:      opts,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create persists a pending order for the caller and then empties their cart.
// Submitted items are used as the cart snapshot; without items the stored cart
// is priced from the catalog.
func (s *OrderService) Create(ctx context.Context, caller ports.Caller, in ports.CreateOrderInput) (*domain.Order, error) {
	if caller.UserID == "" {
		return nil, domain.ErrForbidden
	}

	var (
		items  []domain.OrderItem
		source string
		err    error
	)
	if len(in.Items) > 0 {
		source = sourceSnapshot
		items, err = s.snapshotItems(ctx, in.Items)
	} else {
		source = sourceCart
		items, err = s.cartItems(ctx, caller.UserID)
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &domain.Order{
		ID:        uuid.NewString(),
		UserID:    caller.UserID,
		Items:     items,
		Total:     domain.OrderTotal(items),
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.log.Error().Err(err).Str("user_id", caller.UserID).Msg("failed to create order")
		return nil, err
	}
	s.recorder.OrderCreated(source)

	// The order is already durable; a stale cart must not fail the request.
	if err := s.carts.Clear(ctx, caller.UserID); err != nil {
		s.recorder.CartClearFailed()
		s.log.Warn().Err(err).Str("order_id", order.ID).Str("user_id", caller.UserID).Msg("failed to clear cart after order")
	}

	s.log.Info().
		Str("order_id", order.ID).
		Str("user_id", caller.UserID).
		Str("source", source).
		Float64("total", order.Total).
		Msg("order created")
	return order, nil
}

func (s *OrderService) snapshotItems(ctx context.Context, in []ports.OrderItemInput) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(in))
	for i, line := range in {
		if line.ProductID == "" {
			return nil, fmt.Errorf("%w: items[%d].product_id is required", domain.ErrValidation, i)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: items[%d].quantity must be greater than 0", domain.ErrValidation, i)
		}
		if line.Price < 0 {
			return nil, fmt.Errorf("%w: items[%d].price must not be negative", domain.ErrValidation, i)
		}

		item := domain.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
		}
		if s.opts.StrictPricing {
			p, err := s.orderableProduct(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return nil, err
			}
			item.Name = p.Name
			item.Price = p.Price
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *OrderService) cartItems(ctx context.Context, userID string) ([]domain.OrderItem, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("create order: load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		var p *domain.Product
		if s.opts.StrictPricing {
			p, err = s.orderableProduct(ctx, line.ProductID, line.Quantity)
		} else {
			p, err = s.products.FindByID(ctx, line.ProductID)
			if errors.Is(err, domain.ErrProductNotFound) {
				err = fmt.Errorf("%w: product %s is no longer available", domain.ErrValidation, line.ProductID)
			}
		}
		if err != nil {
			return nil, err
		}
		items = append(items, domain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  line.Quantity,
		})
	}
	return items, nil
}

func (s *OrderService) orderableProduct(ctx context.Context, productID string, quantity int) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil, fmt.Errorf("%w: product %s does not exist", domain.ErrValidation, productID)
	}
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, fmt.Errorf("%w: product %s is not active", domain.ErrValidation, productID)
	}
	if p.Stock < quantity {
		return nil, fmt.Errorf("%w: insufficient stock for product %s", domain.ErrValidation, productID)
	}
	return p, nil
}

func (s *OrderService) Get(ctx context.Context, caller ports.Caller, id string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(order.UserID) {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *OrderService) ListByUser(ctx context.Context, caller ports.Caller, userID string) ([]*domain.Order, error) {
	if !caller.CanAccess(userID) {
		return nil, domain.ErrForbidden
	}
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context, caller ports.Caller) ([]*domain.Order, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.orders.List(ctx)
}

// SetStatus moves an order forward. Re-applying the current status is a no-op;
// moving backwards fails with domain.ErrInvalidTransition.
func (s *OrderService) SetStatus(ctx context.Context, caller ports.Caller, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("set status: %w (from %s to %s)", domain.ErrInvalidTransition, order.Status, status)
	}

	updated, err := s.orders.UpdateStatus(ctx, id, order.Status, status, nil)
	if errors.Is(err, domain.ErrStatusConflict) {
		// Another writer got there first; succeed only if it reached the same status.
		current, findErr := s.orders.FindByID(ctx, id)
		if findErr == nil && current.Status == status {
			return current, nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.recorder.StatusTransition(order.Status, status)
	s.log.Info().
		Str("order_id", id).
		Str("from", string(order.Status)).
		Str("to", string(status)).
		Str("by", caller.UserID).
		Msg("order status changed")
	return updated, nil
}

// ConfirmPayment attaches a payment artifact and marks the order confirmed.
// An order that already carries an artifact is returned unchanged.
func (s *OrderService) ConfirmPayment(ctx context.Context, caller ports.Caller, id string) (*domain.Order, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.PaymentArtifact != nil {
		return order, nil
	}

	artifact, err := s.artifacts.Issue(order, s.now())
	if err != nil {
		return nil, fmt.Errorf("confirm payment: %w", err)
	}

	updated, err := s.orders.UpdateStatus(ctx, id, order.Status, domain.StatusConfirmed, artifact)
	if errors.Is(err, domain.ErrStatusConflict) {
		current, findErr := s.orders.FindByID(ctx, id)
		if findErr == nil && current.PaymentArtifact != nil {
			return current, nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if order.Status != domain.StatusConfirmed {
		s.recorder.StatusTransition(order.Status, domain.StatusConfirmed)
	}
	s.recorder.PaymentConfirmed()
	s.log.Info().Str("order_id", id).Str("by", caller.UserID).Msg("payment confirmed")
	return updated, nil
}

// VerifyArtifact decodes a scanned payload. Storage is not consulted.
func (s *OrderService) VerifyArtifact(_ context.Context, payload string) (*domain.PaymentProof, error) {
	return s.artifacts.Decode(payload)
}
