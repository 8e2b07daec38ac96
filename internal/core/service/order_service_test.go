package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lbsshop/storefront-api/internal/core/domain"
	"github.com/lbsshop/storefront-api/internal/core/ports"
)

type orderFixture struct {
	svc       *OrderService
	orders    *stubOrderRepo
	carts     *stubCartRepo
	artifacts *stubArtifacts
	rec       *countingRecorder
}

func newOrderFixture(opts OrderOptions) *orderFixture {
	products := newStubProductRepo(
		&domain.Product{ID: "p1", Name: "Lamp", Price: 100, Stock: 5, Active: true},
		&domain.Product{ID: "p2", Name: "Bulb", Price: 50, Stock: 1, Active: true},
		&domain.Product{ID: "p3", Name: "Retired", Price: 10, Stock: 9, Active: false},
	)
	f := &orderFixture{
		orders:    newStubOrderRepo(),
		carts:     newStubCartRepo(),
		artifacts: &stubArtifacts{},
		rec:       newCountingRecorder(),
	}
	f.svc = NewOrderService(f.orders, f.carts, products, f.artifacts, f.rec, opts, discardLogger)
	return f
}

func snapshot() ports.CreateOrderInput {
	return ports.CreateOrderInput{Items: []ports.OrderItemInput{
		{ProductID: "p1", Name: "Lamp", Price: 100, Quantity: 2},
		{ProductID: "p2", Name: "Bulb", Price: 50, Quantity: 1},
	}}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestOrderService_Create_FromSnapshot(t *testing.T) {
	f := newOrderFixture(OrderOptions{})
	ctx := context.Background()
	_, _ = f.carts.AddItem(ctx, clientCaller.UserID, "p1", 2)

	order, err := f.svc.Create(ctx, clientCaller, snapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Total != 250 {
		t.Errorf("expected total 250, got %v", order.Total)
	}
	if order.Status != domain.StatusPending {
		t.Errorf("expected pending, got %s", order.Status)
	}
	if order.UserID != clientCaller.UserID {
		t.Errorf("expected user %s, got %s", clientCaller.UserID, order.UserID)
	}
	if _, ok := f.orders.orders[order.ID]; !ok {
		t.Error("order was not persisted")
	}

	cart, _ := f.carts.Get(ctx, clientCaller.UserID)
	if !cart.IsEmpty() {
		t.Errorf("expected cart to be cleared, got %+v", cart.Items)
	}
	if f.rec.created[sourceSnapshot] != 1 {
		t.Errorf("expected one snapshot order recorded, got %v", f.rec.created)
	}
}

func TestOrderService_Create_FromStoredCart(t *testing.T) {
	f := newOrderFixture(OrderOptions{})
	ctx := context.Background()
	_, _ = f.carts.AddItem(ctx, clientCaller.UserID, "p1", 2)
	_, _ = f.carts.AddItem(ctx, clientCaller.UserID, "p2", 1)

	order, err := f.svc.Create(ctx, clientCaller, ports.CreateOrderInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Total != 250 {
		t.Errorf("expected total 250, got %v", order.Total)
	}
	if order.Items[0].Name != "Lamp" {
		t.Errorf("expected catalog name, got %q", order.Items[0].Name)
	}
	if f.rec.created[sourceCart] != 1 {
		t.Errorf("expected one cart order recorded, got %v", f.rec.created)
	}
}

func TestOrderService_Create_EmptyCart(t *testing.T) {
	f := newOrderFixture(OrderOptions{})

	_, err := f.svc.Create(context.Background(), clientCaller, ports.CreateOrderInput{})
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if len(f.orders.orders) != 0 {
		t.Error("no order must be stored for an empty cart")
	}
}

func TestOrderService_Create_InvalidLine(t *testing.T) {
	f := newOrderFixture(OrderOptions{})
	in := ports.CreateOrderInput{Items: []ports.OrderItemInput{{ProductID: "p1", Price: 10, Quantity: 0}}}

	if _, err := f.svc.Create(context.Background(), clientCaller, in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestOrderService_Create_CartClearFailureIsNotReturned(t *testing.T) {
	f := newOrderFixture(OrderOptions{})
	f.carts.clearErr = errBoom

	order, err := f.svc.Create(context.Background(), clientCaller, snapshot())
	if err != nil {
		t.Fatalf("cart clear failure must not fail the order: %v", err)
	}
	if _, ok := f.orders.orders[order.ID]; !ok {
		t.Error("order must be persisted")
	}
	if f.rec.clearFailed != 1 {
		t.Errorf("expected clear failure to be recorded, got %d", f.rec.clearFailed)
	}
}

func TestOrderService_Create_PersistFailureKeepsCart(t *testing.T) {
	f := newOrderFixture(OrderOptions{})
	f.orders.createErr = errBoom
	ctx := context.Background()
	_, _ = f.carts.AddItem(ctx, clientCaller.UserID, "p1", 1)

	if _, err := f.svc.Create(ctx, clientCaller, snapshot()); !errors.Is(err, errBoom) {
		t.Fatalf("expected persist error, got %v", err)
	}
	cart, _ := f.carts.Get(ctx, clientCaller.UserID)
	if cart.IsEmpty() {
		t.Fatal("cart must not be cleared when the order was not stored")
	}
}

func TestOrderService_Create_StrictPricing(t *testing.T) {
	f := newOrderFixture(OrderOptions{StrictPricing: true})
	ctx := context.Background()

	cheap := ports.CreateOrderInput{Items: []ports.OrderItemInput{{ProductID: "p1", Price: 1, Quantity: 1}}}
	order, err := f.svc.Create(ctx, clientCaller, cheap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Total != 100 {
		t.Errorf("expected catalog price 100, got %v", order.Total)
	}

	rejected := []ports.OrderItemInput{
		{ProductID: "missing", Price: 1, Quantity: 1},
		{ProductID: "p3", Price: 10, Quantity: 1},
		{ProductID: "p2", Price: 50, Quantity: 2},
	}
	for _, line := range rejected {
		_, err := f.svc.Create(ctx, clientCaller, ports.CreateOrderInput{Items: []ports.OrderItemInput{line}})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("line %+v: expected ErrValidation, got %v", line, err)
		}
	}
}

func TestOrderService_Create_RequiresIdentity(t *testing.T) {
	f := newOrderFixture(OrderOptions{})

	if _, err := f.svc.Create(context.Background(), ports.Caller{}, snapshot()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Access
// ---------------------------------------------------------------------------

func TestOrderService_Access(t *testing.T) {
	f := newOrderFixture(OrderOptions{})
	ctx := context.Background()
	order, _ := f.svc.Create(ctx, clientCaller, snapshot())

	if _, err := f.svc.Get(ctx, clientCaller, order.ID); err != nil {
		t.Errorf("owner Get failed: %v", err)
	}
	if _, err := f.svc.Get(ctx, adminCaller, order.ID); err != nil {
		t.Errorf("admin Get failed: %v", err)
	}
	if _, err := f.svc.Get(ctx, otherCaller, order.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for other user, got %v", err)
	}
	if _, err := f.svc.ListByUser(ctx, otherCaller, clientCaller.UserID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden listing other user's orders, got %v", err)
	}
	if _, err := f.svc.ListAll(ctx, clientCaller); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for ListAll, got %v", err)
	}

	mine, err := f.svc.ListByUser(ctx, clientCaller, clientCaller.UserID)
	if err != nil || len(mine) != 1 {
		t.Errorf("expected 1 order, got %d (%v)", len(mine), err)
	}
}

// ---------------------------------------------------------------------------
// SetStatus
// ---------------------------------------------------------------------------

func TestOrderService_SetStatus(t *testing.T) {
	f := newOrderFixture(OrderOptions{})
	ctx := context.Background()
	order, _ := f.svc.Create(ctx, clientCaller, snapshot())

	if _, err := f.svc.SetStatus(ctx, clientCaller, order.ID, domain.StatusConfirmed); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if f.orders.orders[order.ID].Status != domain.StatusPending {
		t.Fatal("non-admin call must not change status")
	}

	updated, err := f.svc.SetStatus(ctx, adminCaller, order.ID, domain.StatusConfirmed)
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if updated.Status != domain.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", updated.Status)
	}

	again, err := f.svc.SetStatus(ctx, adminCaller, order.ID, domain.StatusConfirmed)
	if err != nil || again.Status != domain.StatusConfirmed {
		t.Fatalf("same status must be a no-op, got %v / %v", again, err)
	}
	if f.rec.transitions != 1 {
		t.Errorf("expected 1 transition recorded, got %d", f.rec.transitions)
	}

	if _, err := f.svc.SetStatus(ctx, adminCaller, order.ID, domain.StatusPending); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := f.svc.SetStatus(ctx, adminCaller, order.ID, "shipped"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown status, got %v", err)
	}
	if _, err := f.svc.SetStatus(ctx, adminCaller, "missing", domain.StatusConfirmed); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ConfirmPayment
// ---------------------------------------------------------------------------

func TestOrderService_ConfirmPayment(t *testing.T) {
	f := newOrderFixture(OrderOptions{})
	ctx := context.Background()
	order, _ := f.svc.Create(ctx, clientCaller, snapshot())

	confirmed, err := f.svc.ConfirmPayment(ctx, adminCaller, order.ID)
	if err != nil {
		t.Fatalf("ConfirmPayment failed: %v", err)
	}
	if confirmed.Status != domain.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", confirmed.Status)
	}
	if confirmed.PaymentArtifact == nil {
		t.Fatal("expected payment artifact")
	}

	proof, err := f.svc.VerifyArtifact(ctx, confirmed.PaymentArtifact.Payload)
	if err != nil || proof.OrderID != order.ID {
		t.Fatalf("artifact must decode to the order, got %+v / %v", proof, err)
	}

	second, err := f.svc.ConfirmPayment(ctx, adminCaller, order.ID)
	if err != nil {
		t.Fatalf("second ConfirmPayment failed: %v", err)
	}
	if second.PaymentArtifact.Payload != confirmed.PaymentArtifact.Payload {
		t.Fatal("second call must return the stored artifact")
	}
	if f.artifacts.issued != 1 {
		t.Fatalf("expected 1 artifact issued, got %d", f.artifacts.issued)
	}
	if f.rec.confirmed != 1 {
		t.Fatalf("expected 1 confirmation recorded, got %d", f.rec.confirmed)
	}
}

func TestOrderService_ConfirmPayment_AfterManualConfirm(t *testing.T) {
	f := newOrderFixture(OrderOptions{})
	ctx := context.Background()
	order, _ := f.svc.Create(ctx, clientCaller, snapshot())
	_, _ = f.svc.SetStatus(ctx, adminCaller, order.ID, domain.StatusConfirmed)

	confirmed, err := f.svc.ConfirmPayment(ctx, adminCaller, order.ID)
	if err != nil {
		t.Fatalf("ConfirmPayment failed: %v", err)
	}
	if confirmed.PaymentArtifact == nil {
		t.Fatal("expected artifact on an already confirmed order")
	}
}

func TestOrderService_ConfirmPayment_Errors(t *testing.T) {
	f := newOrderFixture(OrderOptions{})
	ctx := context.Background()
	order, _ := f.svc.Create(ctx, clientCaller, snapshot())

	if _, err := f.svc.ConfirmPayment(ctx, clientCaller, order.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if f.artifacts.issued != 0 {
		t.Fatal("no artifact must be issued for a forbidden call")
	}
	if _, err := f.svc.ConfirmPayment(ctx, adminCaller, "missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_VerifyArtifact_Invalid(t *testing.T) {
	f := newOrderFixture(OrderOptions{})

	if _, err := f.svc.VerifyArtifact(context.Background(), "junk"); !errors.Is(err, domain.ErrInvalidArtifact) {
		t.Fatalf("expected ErrInvalidArtifact, got %v", err)
	}
}
