package domain

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrEmptyName        = errors.New("product name must not be empty")
	ErrNameTooLong      = errors.New("product name must be at most 200 characters")
	ErrNegativePrice    = errors.New("product price must not be negative")
	ErrNegativeStock    = errors.New("product stock must not be negative")
	ErrStockUnderflow   = errors.New("requested quantity exceeds available stock")
	ErrInvalidProductID = errors.New("product id must not be nil")
)

// Product is the catalog aggregate ordering reads and decrements.
// Version is the optimistic concurrency token; every successful write bumps it.
type Product struct {
	ID            uuid.UUID
	Name          string
	Description   *string
	PriceCents    int64
	StockQuantity int
	Version       int64
}

// NewProduct validates and constructs a product aggregate.
func NewProduct(id uuid.UUID, name string, description *string, priceCents int64, stock int) (*Product, error) {
	product := &Product{
		ID:            id,
		Name:          name,
		Description:   description,
		PriceCents:    priceCents,
		StockQuantity: stock,
		Version:       1,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if p.ID == uuid.Nil {
		return ErrInvalidProductID
	}
	if p.Name == "" {
		return ErrEmptyName
	}
	if len(p.Name) > 200 {
		return ErrNameTooLong
	}
	if p.PriceCents < 0 {
		return ErrNegativePrice
	}
	if p.StockQuantity < 0 {
		return ErrNegativeStock
	}
	return nil
}

// DecrementStock reduces available stock, refusing to go below zero.
func (p *Product) DecrementStock(quantity int) error {
	if quantity > p.StockQuantity {
		return ErrStockUnderflow
	}
	p.StockQuantity -= quantity
	return nil
}
