package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/xproducts/ordering-api/internal/domains/ordering/domain"
)

// OrderItem is one (product, quantity) request in a basket.
type OrderItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// Service exposes the ordering use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, items []OrderItem) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

// ProductInput carries the writable product fields for catalog use cases.
type ProductInput struct {
	Name        string
	Description *string
	PriceCents  int64
	Stock       int
}

// CatalogService exposes product management to adapters. These use cases live
// outside the placement core but share its product records.
type CatalogService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}
