package product

import (
	"errors"
	"strings"
)

// Category constants
const (
	CategoryKimono    = "kimono"
	CategoryRashguard = "rashguard"
	CategoryBelt      = "faixa"
	CategoryAccessory = "acessorio"
)

// Domain errors
var (
	ErrEmptyName     = errors.New("product name cannot be empty")
	ErrNegativePrice = errors.New("product price cannot be negative")
	ErrNegativeStock = errors.New("product stock cannot be negative")
)

// Product is an item in the academy store catalog.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock,omitempty"`
	Category    string  `json:"category,omitempty"`
	Image       string  `json:"image,omitempty"`
}

// Validate checks if the Product has valid data.
// PRE: Product struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Image       *string  `json:"image,omitempty"`
}

// Apply merges the set fields of p into prod. The ID is never changed.
func (p Patch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Stock != nil {
		prod.Stock = *p.Stock
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
	if p.Image != nil {
		prod.Image = *p.Image
	}
}
