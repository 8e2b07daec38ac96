package metrics

import "github.com/lbsshop/storefront-api/internal/core/domain"

// Recorder forwards service events to the Prometheus collectors.
type Recorder struct{}

func (Recorder) AuthFailure(reason string) {
	AuthFailuresTotal.WithLabelValues(reason).Inc()
}

func (Recorder) OrderCreated(source string) {
	OrdersCreatedTotal.WithLabelValues(source).Inc()
}

func (Recorder) CartClearFailed() {
	CartClearFailuresTotal.Inc()
}

func (Recorder) StatusTransition(from, to domain.OrderStatus) {
	OrderStatusTransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
}

func (Recorder) PaymentConfirmed() {
	PaymentsConfirmedTotal.Inc()
}
