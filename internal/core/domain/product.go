package domain

import (
	"fmt"
	"time"
)

// DefaultImageRef is used when a product is created without an image.
const DefaultImageRef = "/images/default.jpg"

// Product is a catalog entry.
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Price       float64   `json:"price" bson:"price"`
	Category    string    `json:"category" bson:"category"`
	Description string    `json:"description" bson:"description"`
	Stock       int       `json:"stock" bson:"stock"`
	ImageRef    string    `json:"image" bson:"image"`
	Active      bool      `json:"active" bson:"active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// ProductPatch carries a partial update. Nil fields keep their current value.
type ProductPatch struct {
	Name        *string
	Price       *float64
	Category    *string
	Description *string
	Stock       *int
	ImageRef    *string
	Active      *bool
}

// Validate checks the catalog invariants.
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than 0", ErrValidation)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	return nil
}

// Apply merges the non-nil fields of patch into p.
func (p *Product) Apply(patch ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.ImageRef != nil {
		p.ImageRef = *patch.ImageRef
	}
	if patch.Active != nil {
		p.Active = *patch.Active
	}
}

// ProductFilter narrows a catalog listing. Zero values disable a filter.
type ProductFilter struct {
	Category   string
	ActiveOnly bool
}

// Matches reports whether p passes the filter.
func (f ProductFilter) Matches(p *Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.ActiveOnly && !p.Active {
		return false
	}
	return true
}
