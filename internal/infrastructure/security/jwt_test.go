package security

import (
	"errors"
	"testing"
	"time"

	"github.com/lbsshop/storefront-api/internal/core/domain"
	"github.com/lbsshop/storefront-api/internal/core/ports"
)

func TestJWTService_IssueVerify(t *testing.T) {
	svc := NewJWTService("secret")

	token, err := svc.Issue(ports.Claims{UserID: "u1", Email: "a@b.c", Role: domain.RoleClient}, time.Hour)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "a@b.c" || claims.Role != domain.RoleClient {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt) {
		t.Fatalf("expected exp after iat, got %v / %v", claims.ExpiresAt, claims.IssuedAt)
	}
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("secret")
	start := time.Now()
	svc.now = func() time.Time { return start }

	token, err := svc.Issue(ports.Claims{UserID: "u1", Role: domain.RoleClient}, time.Minute)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	svc.now = func() time.Time { return start.Add(30 * time.Second) }
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("token should be valid before expiry: %v", err)
	}

	svc.now = func() time.Time { return start.Add(2 * time.Minute) }
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTService_Invalid(t *testing.T) {
	svc := NewJWTService("secret")

	if _, err := svc.Verify(""); !errors.Is(err, domain.ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
	if _, err := svc.Verify("garbage"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	token, _ := NewJWTService("other").Issue(ports.Claims{UserID: "u1", Role: domain.RoleAdmin}, time.Hour)
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for foreign signature, got %v", err)
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)

	hash, err := h.Hash("pass123")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "pass123" {
		t.Fatal("expected password to be hashed")
	}
	if err := h.Compare(hash, "pass123"); err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	if err := h.Compare(hash, "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
