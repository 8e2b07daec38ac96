package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lbsshop/storefront-api/internal/core/domain"
	"github.com/lbsshop/storefront-api/internal/core/ports"
)

func seedUsers() *stubUserRepo {
	repo := newStubUserRepo()
	repo.users["user-1"] = &domain.User{ID: "user-1", Email: "one@example.com", Name: "One", Role: domain.RoleClient}
	repo.users["user-2"] = &domain.User{ID: "user-2", Email: "two@example.com", Name: "Two", Role: domain.RoleClient}
	repo.users["admin-1"] = &domain.User{ID: "admin-1", Email: "root@example.com", Name: "Root", Role: domain.RoleAdmin}
	return repo
}

func TestUserService_List(t *testing.T) {
	svc := NewUserService(seedUsers(), discardLogger)

	if _, err := svc.List(context.Background(), clientCaller); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	users, err := svc.List(context.Background(), adminCaller)
	if err != nil || len(users) != 3 {
		t.Fatalf("expected 3 users, got %d (%v)", len(users), err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	repo := seedUsers()
	svc := NewUserService(repo, discardLogger)
	ctx := context.Background()

	u, err := svc.UpdateProfile(ctx, clientCaller, "user-1", ports.UpdateProfileInput{Name: ptr("Uno")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if u.Name != "Uno" || u.Email != "one@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := svc.UpdateProfile(ctx, clientCaller, "user-1", ports.UpdateProfileInput{Email: ptr("TWO@example.com")}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, otherCaller, "user-1", ports.UpdateProfileInput{Name: ptr("Hijack")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.users["user-1"].Name != "Uno" {
		t.Fatal("forbidden update must not be applied")
	}
}

func TestStatsService_Summary(t *testing.T) {
	users := seedUsers()
	products := newStubProductRepo(&domain.Product{ID: "p1"}, &domain.Product{ID: "p2"})
	orders := newStubOrderRepo()
	orders.orders["o1"] = &domain.Order{ID: "o1", Total: 250}
	orders.orders["o2"] = &domain.Order{ID: "o2", Total: 49.5}
	svc := NewStatsService(users, products, orders)

	if _, err := svc.Summary(context.Background(), clientCaller); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	stats, err := svc.Summary(context.Background(), adminCaller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalUsers != 2 {
		t.Errorf("expected 2 clients, got %d", stats.TotalUsers)
	}
	if stats.Collections.Users != 3 {
		t.Errorf("expected 3 user records, got %d", stats.Collections.Users)
	}
	if stats.TotalProducts != 2 || stats.TotalOrders != 2 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.TotalRevenue != 299.5 {
		t.Errorf("expected revenue 299.5, got %v", stats.TotalRevenue)
	}
}
