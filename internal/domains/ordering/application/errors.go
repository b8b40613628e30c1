package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/xproducts/ordering-api/internal/domains/ordering/domain"
)

var (
	// ErrInvalidInput signals the basket violated a domain invariant.
	// Permanent: retrying cannot fix the caller's request.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrConflictExhausted signals the placement kept losing version checks
	// for the whole retry budget. It wraps the final conflict.
	ErrConflictExhausted = errors.New("placement retries exhausted")
)

// ProductsNotFoundError names every requested product missing from the catalog.
type ProductsNotFoundError struct {
	ProductIDs []uuid.UUID
}

func (e *ProductsNotFoundError) Error() string {
	ids := make([]string, 0, len(e.ProductIDs))
	for _, id := range e.ProductIDs {
		ids = append(ids, id.String())
	}
	return fmt.Sprintf("products not found: %s", strings.Join(ids, ","))
}

// InsufficientStockError reports the first product whose stock cannot cover
// the requested quantity.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.Name, e.Requested, e.Available)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyOrder) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidLineProduct) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
