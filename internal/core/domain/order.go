package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending: {StatusConfirmed},
}

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a snapshot of a cart line at order time.
type OrderItem struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Name      string  `json:"name,omitempty" bson:"name,omitempty"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// LineTotal returns price × quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderTotal sums the line totals, rounded to cents.
func OrderTotal(items []OrderItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum.Round(2).InexactFloat64()
}

// PaymentArtifact is the proof of payment attached to a confirmed order.
// Payload is a signed, self-describing token; QRCode is a PNG data URL of it.
type PaymentArtifact struct {
	Payload     string    `json:"payload" bson:"payload"`
	QRCode      string    `json:"qr_code" bson:"qr_code"`
	ConfirmedAt time.Time `json:"confirmed_at" bson:"confirmed_at"`
}

// PaymentProof is the decoded content of a PaymentArtifact payload.
type PaymentProof struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	Total       float64   `json:"total"`
	Status      string    `json:"status"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// ProofStatusPaid is the status carried by every payment proof.
const ProofStatusPaid = "paid"

// Order is the aggregate created from a cart snapshot.
type Order struct {
	ID              string           `json:"id" bson:"_id"`
	UserID          string           `json:"user_id" bson:"user_id"`
	Items           []OrderItem      `json:"items" bson:"items"`
	Total           float64          `json:"total" bson:"total"`
	Status          OrderStatus      `json:"status" bson:"status"`
	CreatedAt       time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" bson:"updated_at"`
	PaymentArtifact *PaymentArtifact `json:"payment_artifact" bson:"payment_artifact"`
}
