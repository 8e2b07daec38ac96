package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/lbsshop/storefront-api/internal/core/domain"
	"github.com/lbsshop/storefront-api/internal/core/ports"
)

type stubCatalogService struct {
	listFn   func(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
	updateFn func(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
}

func (s *stubCatalogService) Create(_ context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	return &domain.Product{ID: "p1", Name: in.Name, Price: in.Price, Active: true}, nil
}

func (s *stubCatalogService) Get(context.Context, string) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (s *stubCatalogService) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	return s.listFn(ctx, filter)
}

func (s *stubCatalogService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubCatalogService) Delete(context.Context, string) error {
	return nil
}

func TestProductHandler_List_Filters(t *testing.T) {
	stub := &stubCatalogService{
		listFn: func(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
			if filter.Category != "shoes" || !filter.ActiveOnly {
				t.Fatalf("unexpected filter: %+v", filter)
			}
			return []*domain.Product{}, nil
		},
	}
	handler := NewProductHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/api/products?category=shoes&active=true", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProductHandler_List_BadActiveFlag(t *testing.T) {
	handler := NewProductHandler(&stubCatalogService{})

	c, _ := newTestContext(http.MethodGet, "/api/products?active=maybe", "")
	if err := handler.List(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestProductHandler_Create(t *testing.T) {
	handler := NewProductHandler(&stubCatalogService{})

	c, rec := newTestContext(http.MethodPost, "/api/products", `{"name":"Lamp","price":19.5,"stock":3}`)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestProductHandler_Create_RejectsZeroPrice(t *testing.T) {
	handler := NewProductHandler(&stubCatalogService{})

	c, _ := newTestContext(http.MethodPost, "/api/products", `{"name":"Lamp","price":0}`)
	if err := handler.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestProductHandler_Update_OnlySuppliedFields(t *testing.T) {
	stub := &stubCatalogService{
		updateFn: func(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
			if patch.Price == nil || *patch.Price != 42 {
				t.Fatalf("expected price in patch, got %+v", patch)
			}
			if patch.Name != nil || patch.Stock != nil || patch.Active != nil {
				t.Fatalf("unexpected fields in patch: %+v", patch)
			}
			return &domain.Product{ID: id, Price: *patch.Price}, nil
		},
	}
	handler := NewProductHandler(stub)

	c, rec := newTestContext(http.MethodPut, "/api/products/p1", `{"price":42}`)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
