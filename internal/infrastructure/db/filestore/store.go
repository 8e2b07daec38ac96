package filestore

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lbsshop/storefront-api/internal/core/domain"
)

// Store owns the collection files of one data directory.
type Store struct {
	dir        string
	users      *collection[userRecord]
	products   *collection[domain.Product]
	categories *collection[domain.Category]
	carts      *collection[domain.Cart]
	orders     *collection[domain.Order]
}

// Open creates dir when missing and loads every collection found in it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create data dir: %w", err)
	}

	s := &Store{dir: dir}
	var err error
	if s.users, err = openCollection[userRecord](dir, "users"); err != nil {
		return nil, err
	}
	if s.products, err = openCollection[domain.Product](dir, "products"); err != nil {
		return nil, err
	}
	if s.categories, err = openCollection[domain.Category](dir, "categories"); err != nil {
		return nil, err
	}
	if s.carts, err = openCollection[domain.Cart](dir, "carts"); err != nil {
		return nil, err
	}
	if s.orders, err = openCollection[domain.Order](dir, "orders"); err != nil {
		return nil, err
	}
	return s, nil
}

// Ping reports whether the data directory is still reachable.
func (s *Store) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("filestore: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("filestore: %s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{c: s.users}
}

func (s *Store) Products() *ProductRepository {
	return &ProductRepository{c: s.products}
}

func (s *Store) Categories() *CategoryRepository {
	return &CategoryRepository{c: s.categories}
}

func (s *Store) Carts() *CartRepository {
	return &CartRepository{c: s.carts}
}

func (s *Store) Orders() *OrderRepository {
	return &OrderRepository{c: s.orders}
}

// userRecord is the on-disk form of a user. domain.User never serialises its hash.
type userRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toUserRecord(u *domain.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
