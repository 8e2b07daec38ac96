package filestore

import (
	"context"
	"strings"

	"github.com/lbsshop/storefront-api/internal/core/domain"
)

type UserRepository struct {
	c *collection[userRecord]
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.c.update(ctx, func(items []userRecord) ([]userRecord, error) {
		for _, u := range items {
			if strings.EqualFold(u.Email, user.Email) {
				return nil, domain.ErrDuplicateEmail
			}
		}
		return append(items, toUserRecord(user)), nil
	})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.find(ctx, func(u userRecord) bool { return u.ID == id })
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(ctx, func(u userRecord) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepository) find(ctx context.Context, match func(userRecord) bool) (*domain.User, error) {
	var found *domain.User
	err := r.c.view(ctx, func(items []userRecord) error {
		for _, u := range items {
			if match(u) {
				found = u.toDomain()
				return nil
			}
		}
		return domain.ErrUserNotFound
	})
	return found, err
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.c.update(ctx, func(items []userRecord) ([]userRecord, error) {
		idx := -1
		for i, u := range items {
			if u.ID == user.ID {
				idx = i
			} else if strings.EqualFold(u.Email, user.Email) {
				return nil, domain.ErrDuplicateEmail
			}
		}
		if idx < 0 {
			return nil, domain.ErrUserNotFound
		}
		items[idx] = toUserRecord(user)
		return items, nil
	})
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var out []*domain.User
	err := r.c.view(ctx, func(items []userRecord) error {
		out = make([]*domain.User, 0, len(items))
		for _, u := range items {
			out = append(out, u.toDomain())
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := r.c.view(ctx, func(items []userRecord) error {
		for _, u := range items {
			if role == "" || u.Role == role {
				n++
			}
		}
		return nil
	})
	return n, err
}
