package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/xproducts/ordering-api/internal/domains/ordering/domain"
	"github.com/xproducts/ordering-api/internal/domains/ordering/ports"
)

var (
	_ ports.TxBeginner     = (*Store)(nil)
	_ ports.ProductStore   = (*Store)(nil)
	_ ports.OrderStore     = (*Store)(nil)
	_ ports.ProductCatalog = (*Catalog)(nil)
)

// Store is an in-memory persistence adapter backing every ordering port. It
// mimics the durable store's contract: writes stage inside a transaction and
// only become visible on commit, with stock writes re-verified against the
// version token at commit time so a lost update is always detected.
type Store struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product
	orders   map[uuid.UUID]*domain.Order
}

func NewStore() *Store {
	return &Store{
		products: map[uuid.UUID]*domain.Product{},
		orders:   map[uuid.UUID]*domain.Order{},
	}
}

type stagedProduct struct {
	product         domain.Product
	expectedVersion int64
}

// Tx buffers writes until commit. Rollback simply discards the buffer.
type Tx struct {
	store    *Store
	products map[uuid.UUID]stagedProduct
	orders   []domain.Order
	done     bool
}

func (s *Store) Begin(_ context.Context) (ports.Tx, error) {
	return &Tx{store: s, products: map[uuid.UUID]stagedProduct{}}, nil
}

func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return errors.New("transaction already finished")
	}
	t.done = true
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for id, staged := range t.products {
		current, ok := t.store.products[id]
		if !ok || current.Version != staged.expectedVersion {
			return ports.ErrVersionConflict
		}
	}
	for id, staged := range t.products {
		product := staged.product
		t.store.products[id] = &product
	}
	for _, order := range t.orders {
		clone := order
		t.store.orders[order.ID] = &clone
	}
	return nil
}

func (t *Tx) Rollback(_ context.Context) error {
	t.done = true
	t.products = nil
	t.orders = nil
	return nil
}

func memTx(tx ports.Tx) (*Tx, error) {
	handle, ok := tx.(*Tx)
	if !ok || handle == nil {
		return nil, errors.New("transaction handle is not a memory transaction")
	}
	if handle.done {
		return nil, errors.New("transaction already finished")
	}
	return handle, nil
}

func (s *Store) GetByIDs(_ context.Context, tx ports.Tx, ids []uuid.UUID) ([]*domain.Product, error) {
	if _, err := memTx(tx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.Product
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			clone := *product
			result = append(result, &clone)
		}
	}
	return result, nil
}

// UpdateStock fails fast when the committed version already moved on, and
// stages the write for the commit-time re-check otherwise.
func (s *Store) UpdateStock(_ context.Context, tx ports.Tx, product *domain.Product, expectedVersion int64) error {
	handle, err := memTx(tx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.products[product.ID]
	if !ok || current.Version != expectedVersion {
		return ports.ErrVersionConflict
	}
	clone := *product
	clone.Version = expectedVersion + 1
	handle.products[product.ID] = stagedProduct{product: clone, expectedVersion: expectedVersion}
	product.Version = clone.Version
	return nil
}

func (s *Store) Insert(_ context.Context, tx ports.Tx, order *domain.Order) error {
	handle, err := memTx(tx)
	if err != nil {
		return err
	}
	if order == nil {
		return errors.New("order is nil")
	}
	clone := *order
	clone.Lines = append([]domain.OrderLine(nil), order.Lines...)
	handle.orders = append(handle.orders, clone)
	return nil
}

func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	clone := *order
	clone.Lines = append([]domain.OrderLine(nil), order.Lines...)
	return &clone, nil
}

// Catalog is the product-management facade over the same store, so products
// created through it are immediately orderable.
type Catalog struct {
	store *Store
}

func (s *Store) Catalog() *Catalog {
	return &Catalog{store: s}
}

func (c *Catalog) Create(_ context.Context, product *domain.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *product
	if clone.Version == 0 {
		clone.Version = 1
	}
	s.products[clone.ID] = &clone
	return nil
}

func (c *Catalog) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (c *Catalog) Update(_ context.Context, product *domain.Product, expectedVersion int64) error {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.products[product.ID]
	if !ok {
		return ports.ErrProductNotFound
	}
	if current.Version != expectedVersion {
		return ports.ErrVersionConflict
	}
	clone := *product
	clone.Version = expectedVersion + 1
	s.products[product.ID] = &clone
	product.Version = clone.Version
	return nil
}

func (c *Catalog) Delete(_ context.Context, id uuid.UUID) error {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ports.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}
