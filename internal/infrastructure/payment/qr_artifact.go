package payment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skip2/go-qrcode"

	"github.com/lbsshop/storefront-api/internal/core/domain"
)

const (
	proofIssuer   = "storefront-api"
	proofAudience = "storefront-payment-proof"
	qrSize        = 256
)

type proofClaims struct {
	OrderID     string  `json:"order_id"`
	UserID      string  `json:"user_id"`
	Total       float64 `json:"total"`
	Status      string  `json:"status"`
	ConfirmedAt int64   `json:"confirmed_at"`
	jwt.RegisteredClaims
}

// QRIssuer signs payment proofs and renders them as PNG QR codes.
// Proofs carry their own audience so they are never accepted as session tokens.
type QRIssuer struct {
	secret []byte
}

// NewQRIssuer returns an issuer signing with secret.
func NewQRIssuer(secret string) *QRIssuer {
	return &QRIssuer{secret: []byte(secret)}
}

// Issue builds the artifact for order, confirmed at confirmedAt.
func (q *QRIssuer) Issue(order *domain.Order, confirmedAt time.Time) (*domain.PaymentArtifact, error) {
	if order == nil || order.ID == "" {
		return nil, fmt.Errorf("issue artifact: %w: order is required", domain.ErrValidation)
	}
	confirmedAt = confirmedAt.UTC().Truncate(time.Second)

	claims := proofClaims{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Total:       order.Total,
		Status:      domain.ProofStatusPaid,
		ConfirmedAt: confirmedAt.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   proofIssuer,
			Subject:  order.ID,
			Audience: jwt.ClaimStrings{proofAudience},
			IssuedAt: jwt.NewNumericDate(confirmedAt),
		},
	}
	payload, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(q.secret)
	if err != nil {
		return nil, fmt.Errorf("issue artifact: sign: %w", err)
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("issue artifact: encode qr: %w", err)
	}

	return &domain.PaymentArtifact{
		Payload:     payload,
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		ConfirmedAt: confirmedAt,
	}, nil
}

// Decode verifies payload and returns the proof it carries.
func (q *QRIssuer) Decode(payload string) (*domain.PaymentProof, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: payload is empty", domain.ErrInvalidArtifact)
	}

	claims := &proofClaims{}
	_, err := jwt.ParseWithClaims(payload, claims, func(*jwt.Token) (interface{}, error) {
		return q.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(proofAudience),
		jwt.WithIssuer(proofIssuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, err)
	}
	if claims.OrderID == "" || claims.Status != domain.ProofStatusPaid {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, errors.New("incomplete proof"))
	}

	return &domain.PaymentProof{
		OrderID:     claims.OrderID,
		UserID:      claims.UserID,
		Total:       claims.Total,
		Status:      claims.Status,
		ConfirmedAt: time.Unix(claims.ConfirmedAt, 0).UTC(),
	}, nil
}
