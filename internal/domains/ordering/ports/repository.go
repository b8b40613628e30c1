package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/xproducts/ordering-api/internal/domains/ordering/domain"
)

var (
	// ErrOrderNotFound signals an order lookup miss.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound signals a catalog lookup miss.
	ErrProductNotFound = errors.New("product not found")
	// ErrVersionConflict signals that a conditional write lost against a
	// concurrent writer: the record's version no longer matches the one read.
	// It is the only error the placement retry loop treats as transient.
	ErrVersionConflict = errors.New("version conflict")
)

// Tx is a handle to an in-flight unit of work spanning both stores.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxBeginner opens units of work. Begin/Commit/Rollback failures unrelated to
// version checks are infrastructure errors, never retried.
type TxBeginner interface {
	Begin(ctx context.Context) (Tx, error)
}

// ProductStore reads products and applies version-checked stock writes.
type ProductStore interface {
	// GetByIDs batch-reads products within the transaction's read view.
	// IDs with no matching product are simply absent from the result.
	GetByIDs(ctx context.Context, tx Tx, ids []uuid.UUID) ([]*domain.Product, error)
	// UpdateStock persists the product's stock conditioned on expectedVersion
	// still being current, bumping the version on success. Returns
	// ErrVersionConflict when a concurrent writer got there first.
	UpdateStock(ctx context.Context, tx Tx, product *domain.Product, expectedVersion int64) error
}

// OrderStore appends placed orders.
type OrderStore interface {
	Insert(ctx context.Context, tx Tx, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

// ProductCatalog is the product-management view of the same product records
// the placement engine decrements. Update is version-checked so a stale edit
// cannot silently overwrite a concurrent placement's stock write.
type ProductCatalog interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product, expectedVersion int64) error
	Delete(ctx context.Context, id uuid.UUID) error
}
