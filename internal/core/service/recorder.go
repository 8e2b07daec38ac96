package service

import "github.com/lbsshop/storefront-api/internal/core/domain"

// AuthFailureRecorder counts rejected authentication attempts by reason.
type AuthFailureRecorder interface {
	AuthFailure(reason string)
}

// OrderRecorder receives order workflow events for instrumentation.
type OrderRecorder interface {
	OrderCreated(source string)
	CartClearFailed()
	StatusTransition(from, to domain.OrderStatus)
	PaymentConfirmed()
}

type nopRecorder struct{}

func (nopRecorder) AuthFailure(string) {}

func (nopRecorder) OrderCreated(string) {}

func (nopRecorder) CartClearFailed() {}

func (nopRecorder) StatusTransition(_, _ domain.OrderStatus) {}

func (nopRecorder) PaymentConfirmed() {}
