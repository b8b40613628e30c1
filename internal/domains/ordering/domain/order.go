package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyOrder         = errors.New("order must contain at least one line")
	ErrInvalidQuantity    = errors.New("line quantity must be greater than zero")
	ErrNegativeUnitPrice  = errors.New("line unit price must not be negative")
	ErrInvalidLineProduct = errors.New("line product id must not be nil")
)

// OrderLine references a product at the moment the order was placed.
// UnitPriceCents is a snapshot, not a live reference: later catalog price
// changes never alter a placed order.
type OrderLine struct {
	ID             uuid.UUID
	ProductID      uuid.UUID
	Quantity       int
	UnitPriceCents int64
}

// SubtotalCents is the line contribution to the order total.
func (l OrderLine) SubtotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// Order is created exactly once per successful placement and immutable afterwards.
type Order struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	TotalCents int64
	Lines      []OrderLine
}

// NewOrder assembles an order from its lines, computing the total.
func NewOrder(id uuid.UUID, createdAt time.Time, lines []OrderLine) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	order := &Order{
		ID:        id,
		CreatedAt: createdAt,
		Lines:     lines,
	}
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, ErrInvalidLineProduct
		}
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if line.UnitPriceCents < 0 {
			return nil, ErrNegativeUnitPrice
		}
		order.TotalCents += line.SubtotalCents()
	}
	return order, nil
}
