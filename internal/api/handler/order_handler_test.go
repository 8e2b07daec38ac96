package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/lbsshop/storefront-api/internal/api/middleware"
	"github.com/lbsshop/storefront-api/internal/core/domain"
	"github.com/lbsshop/storefront-api/internal/core/ports"
)

type stubOrderService struct {
	createFn  func(ctx context.Context, caller ports.Caller, in ports.CreateOrderInput) (*domain.Order, error)
	setFn     func(ctx context.Context, caller ports.Caller, id string, status domain.OrderStatus) (*domain.Order, error)
	confirmFn func(ctx context.Context, caller ports.Caller, id string) (*domain.Order, error)
	verifyFn  func(ctx context.Context, payload string) (*domain.PaymentProof, error)
}

func (s *stubOrderService) Create(ctx context.Context, caller ports.Caller, in ports.CreateOrderInput) (*domain.Order, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubOrderService) Get(context.Context, ports.Caller, string) (*domain.Order, error) {
	return nil, domain.ErrOrderNotFound
}

func (s *stubOrderService) ListByUser(context.Context, ports.Caller, string) ([]*domain.Order, error) {
	return []*domain.Order{}, nil
}

func (s *stubOrderService) ListAll(context.Context, ports.Caller) ([]*domain.Order, error) {
	return []*domain.Order{}, nil
}

func (s *stubOrderService) SetStatus(ctx context.Context, caller ports.Caller, id string, status domain.OrderStatus) (*domain.Order, error) {
	return s.setFn(ctx, caller, id, status)
}

func (s *stubOrderService) ConfirmPayment(ctx context.Context, caller ports.Caller, id string) (*domain.Order, error) {
	return s.confirmFn(ctx, caller, id)
}

func (s *stubOrderService) VerifyArtifact(ctx context.Context, payload string) (*domain.PaymentProof, error) {
	return s.verifyFn(ctx, payload)
}

func authenticate(c echo.Context, userID, role string) {
	c.Set(middleware.KeyUserID, userID)
	c.Set(middleware.KeyRole, role)
}

func TestOrderHandler_Create_PassesSnapshot(t *testing.T) {
	stub := &stubOrderService{
		createFn: func(ctx context.Context, caller ports.Caller, in ports.CreateOrderInput) (*domain.Order, error) {
			if caller.UserID != "user-1" || caller.Role != domain.RoleClient {
				t.Fatalf("unexpected caller: %+v", caller)
			}
			if len(in.Items) != 2 || in.Items[0].ProductID != "p1" || in.Items[0].Quantity != 2 || in.Items[1].Price != 50 {
				t.Fatalf("unexpected items: %+v", in.Items)
			}
			return &domain.Order{ID: "order-1", UserID: caller.UserID, Total: 250, Status: domain.StatusPending}, nil
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/api/orders",
		`{"items":[{"product_id":"p1","price":100,"quantity":2},{"product_id":"p2","price":50,"quantity":1}]}`)
	authenticate(c, "user-1", domain.RoleClient)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Order domain.Order `json:"order"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Order.Total != 250 || resp.Order.Status != domain.StatusPending {
		t.Fatalf("unexpected order: %+v", resp.Order)
	}
}

func TestOrderHandler_Create_WithoutBodyUsesStoredCart(t *testing.T) {
	stub := &stubOrderService{
		createFn: func(ctx context.Context, caller ports.Caller, in ports.CreateOrderInput) (*domain.Order, error) {
			if len(in.Items) != 0 {
				t.Fatalf("expected no submitted items, got %+v", in.Items)
			}
			return nil, domain.ErrEmptyCart
		},
	}
	handler := NewOrderHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/api/orders", "")
	authenticate(c, "user-1", domain.RoleClient)

	if err := handler.Create(c); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestOrderHandler_Create_RejectsBadQuantity(t *testing.T) {
	handler := NewOrderHandler(&stubOrderService{})

	c, _ := newTestContext(http.MethodPost, "/api/orders", `{"items":[{"product_id":"p1","price":10,"quantity":0}]}`)
	authenticate(c, "user-1", domain.RoleClient)

	if err := handler.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestOrderHandler_RequiresCaller(t *testing.T) {
	handler := NewOrderHandler(&stubOrderService{})

	c, _ := newTestContext(http.MethodGet, "/api/orders", "")
	if err := handler.ListAll(c); !errors.Is(err, domain.ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

func TestOrderHandler_SetStatus(t *testing.T) {
	stub := &stubOrderService{
		setFn: func(ctx context.Context, caller ports.Caller, id string, status domain.OrderStatus) (*domain.Order, error) {
			if id != "order-1" || status != domain.StatusConfirmed {
				t.Fatalf("unexpected args: %s %s", id, status)
			}
			return &domain.Order{ID: id, Status: status}, nil
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newTestContext(http.MethodPut, "/api/orders/order-1/status", `{"status":"confirmed"}`)
	c.SetParamNames("id")
	c.SetParamValues("order-1")
	authenticate(c, "admin-1", domain.RoleAdmin)

	if err := handler.SetStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestOrderHandler_ConfirmPayment_ReturnsArtifact(t *testing.T) {
	stub := &stubOrderService{
		confirmFn: func(ctx context.Context, caller ports.Caller, id string) (*domain.Order, error) {
			return &domain.Order{
				ID:     id,
				Status: domain.StatusConfirmed,
				PaymentArtifact: &domain.PaymentArtifact{
					Payload: "signed-payload",
					QRCode:  "data:image/png;base64,AAAA",
				},
			}, nil
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/api/orders/order-1/confirm", "")
	c.SetParamNames("id")
	c.SetParamValues("order-1")
	authenticate(c, "admin-1", domain.RoleAdmin)

	if err := handler.ConfirmPayment(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp confirmPaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.QRCode != "data:image/png;base64,AAAA" || resp.Payload != "signed-payload" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Order == nil || resp.Order.Status != domain.StatusConfirmed {
		t.Fatalf("expected confirmed order, got %+v", resp.Order)
	}
}

func TestOrderHandler_VerifyArtifact(t *testing.T) {
	stub := &stubOrderService{
		verifyFn: func(ctx context.Context, payload string) (*domain.PaymentProof, error) {
			if payload != "bogus" {
				t.Fatalf("unexpected payload: %s", payload)
			}
			return nil, domain.ErrInvalidArtifact
		},
	}
	handler := NewOrderHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/api/orders/verify", `{"payload":"bogus"}`)
	authenticate(c, "admin-1", domain.RoleAdmin)

	if err := handler.VerifyArtifact(c); !errors.Is(err, domain.ErrInvalidArtifact) {
		t.Fatalf("expected ErrInvalidArtifact, got %v", err)
	}
}
