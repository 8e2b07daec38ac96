package filestore

import (
	"context"
	"strings"

	"github.com/lbsshop/storefront-api/internal/core/domain"
)

type ProductRepository struct {
	c *collection[domain.Product]
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return r.c.update(ctx, func(items []domain.Product) ([]domain.Product, error) {
		return append(items, *p), nil
	})
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var found *domain.Product
	err := r.c.view(ctx, func(items []domain.Product) error {
		for i := range items {
			if items[i].ID == id {
				p := items[i]
				found = &p
				return nil
			}
		}
		return domain.ErrProductNotFound
	})
	return found, err
}

func (r *ProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	out := []*domain.Product{}
	err := r.c.view(ctx, func(items []domain.Product) error {
		for i := range items {
			if filter.Matches(&items[i]) {
				p := items[i]
				out = append(out, &p)
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	return r.c.update(ctx, func(items []domain.Product) ([]domain.Product, error) {
		for i := range items {
			if items[i].ID == p.ID {
				items[i] = *p
				return items, nil
			}
		}
		return nil, domain.ErrProductNotFound
	})
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.c.update(ctx, func(items []domain.Product) ([]domain.Product, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, errUnchanged
	})
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int64(r.c.size()), nil
}

type CategoryRepository struct {
	c *collection[domain.Category]
}

func nameTaken(items []domain.Category, name, exceptID string) bool {
	for _, c := range items {
		if c.ID != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	return r.c.update(ctx, func(items []domain.Category) ([]domain.Category, error) {
		if nameTaken(items, c.Name, "") {
			return nil, domain.ErrDuplicateCategory
		}
		return append(items, *c), nil
	})
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var found *domain.Category
	err := r.c.view(ctx, func(items []domain.Category) error {
		for i := range items {
			if items[i].ID == id {
				c := items[i]
				found = &c
				return nil
			}
		}
		return domain.ErrCategoryNotFound
	})
	return found, err
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	out := []*domain.Category{}
	err := r.c.view(ctx, func(items []domain.Category) error {
		for i := range items {
			c := items[i]
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	return r.c.update(ctx, func(items []domain.Category) ([]domain.Category, error) {
		if nameTaken(items, c.Name, c.ID) {
			return nil, domain.ErrDuplicateCategory
		}
		for i := range items {
			if items[i].ID == c.ID {
				items[i] = *c
				return items, nil
			}
		}
		return nil, domain.ErrCategoryNotFound
	})
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	return r.c.update(ctx, func(items []domain.Category) ([]domain.Category, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, errUnchanged
	})
}
