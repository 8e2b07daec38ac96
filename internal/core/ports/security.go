package ports

import (
	"time"

	"github.com/lbsshop/storefront-api/internal/core/domain"
)

// Claims is the identity carried by a session token.
type Claims struct {
	UserID    string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies signed, expiring session tokens.
type TokenService interface {
	Issue(claims Claims, ttl time.Duration) (string, error)
	// Verify returns domain.ErrTokenMissing, domain.ErrTokenInvalid or domain.ErrTokenExpired on failure.
	Verify(token string) (*Claims, error)
}

// PasswordHasher is a one-way salted hashing scheme.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns domain.ErrInvalidCredentials when password does not match hash.
	Compare(hash, password string) error
}

// ArtifactIssuer produces and decodes payment confirmation artifacts.
type ArtifactIssuer interface {
	Issue(order *domain.Order, confirmedAt time.Time) (*domain.PaymentArtifact, error)
	// Decode verifies payload and returns its content without any storage lookup.
	Decode(payload string) (*domain.PaymentProof, error)
}
