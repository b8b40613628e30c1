package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/xproducts/ordering-api/internal/domains/ordering/domain"
	"github.com/xproducts/ordering-api/internal/domains/ordering/ports"
)

// Catalog covers product management. It writes the same product records the
// placement engine decrements, so its updates are version-checked too: a
// stale edit racing a placement is rejected instead of resurrecting stock.
type Catalog struct {
	products ports.ProductCatalog
}

// NewCatalog wires the catalog service.
func NewCatalog(products ports.ProductCatalog) *Catalog {
	return &Catalog{products: products}
}

// CreateProduct validates and persists a new product.
func (c *Catalog) CreateProduct(ctx context.Context, input ports.ProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(uuid.New(), input.Name, input.Description, input.PriceCents, input.Stock)
	if err != nil {
		return nil, mapCatalogError(err)
	}
	if err := c.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct loads a product by identifier.
func (c *Catalog) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return c.products.GetByID(ctx, id)
}

// UpdateProduct overwrites the writable fields, conditioned on the version
// read here still being current at write time.
func (c *Catalog) UpdateProduct(ctx context.Context, id uuid.UUID, input ports.ProductInput) (*domain.Product, error) {
	product, err := c.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := product.Version
	product.Name = input.Name
	product.Description = input.Description
	product.PriceCents = input.PriceCents
	product.StockQuantity = input.Stock
	if err := product.Validate(); err != nil {
		return nil, mapCatalogError(err)
	}
	if err := c.products.Update(ctx, product, expected); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product from the catalog. Placed orders keep their
// lines: they reference the product by id and price snapshot only.
func (c *Catalog) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return c.products.Delete(ctx, id)
}

func mapCatalogError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

var _ ports.CatalogService = (*Catalog)(nil)
