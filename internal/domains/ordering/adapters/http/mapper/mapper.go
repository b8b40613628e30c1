package mapper

import (
	"time"

	"github.com/google/uuid"

	orderingdomain "github.com/xproducts/ordering-api/internal/domains/ordering/domain"
	orderingports "github.com/xproducts/ordering-api/internal/domains/ordering/ports"
)

// PlaceOrderRequest is the transport shape of a basket.
type PlaceOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type OrderResponse struct {
	ID         uuid.UUID           `json:"id"`
	CreatedAt  time.Time           `json:"createdAt"`
	TotalCents int64               `json:"totalCents"`
	Lines      []OrderLineResponse `json:"lines"`
}

type OrderLineResponse struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"productId"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
}

// ProductRequest carries the writable product fields.
type ProductRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	PriceCents  int64   `json:"priceCents"`
	Stock       int     `json:"stock"`
}

type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	PriceCents  int64     `json:"priceCents"`
	Stock       int       `json:"stock"`
	Version     int64     `json:"version"`
}

// ToOrderItems converts the transport basket into the service input.
func ToOrderItems(req PlaceOrderRequest) []orderingports.OrderItem {
	items := make([]orderingports.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, orderingports.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return items
}

// FromDomainOrder converts a placed order to its transport representation.
func FromDomainOrder(order *orderingdomain.Order) OrderResponse {
	if order == nil {
		return OrderResponse{}
	}
	lines := make([]OrderLineResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLineResponse{
			ID:             line.ID,
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}
	return OrderResponse{
		ID:         order.ID,
		CreatedAt:  order.CreatedAt,
		TotalCents: order.TotalCents,
		Lines:      lines,
	}
}

// ToProductInput converts a transport product payload into the service input.
func ToProductInput(req ProductRequest) orderingports.ProductInput {
	return orderingports.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
	}
}

// FromDomainProduct converts a product to its transport representation.
func FromDomainProduct(product *orderingdomain.Product) ProductResponse {
	if product == nil {
		return ProductResponse{}
	}
	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		PriceCents:  product.PriceCents,
		Stock:       product.StockQuantity,
		Version:     product.Version,
	}
}
