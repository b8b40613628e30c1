package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xproducts/ordering-api/internal/domains/ordering/domain"
	"github.com/xproducts/ordering-api/internal/domains/ordering/ports"
)

const (
	defaultMaxAttempts    = 5
	defaultRetryBaseDelay = 50 * time.Millisecond
)

// Service orchestrates order placement: one transaction per attempt, optimistic
// version checks on stock writes, and a bounded retry loop around conflicts.
// It holds no locks of its own; mutual exclusion is delegated to the store's
// transaction isolation plus the per-product version token.
type Service struct {
	tx       ports.TxBeginner
	products ports.ProductStore
	orders   ports.OrderStore

	maxAttempts int
	baseDelay   time.Duration
}

type Option func(*Service)

// WithMaxAttempts overrides the retry budget for conflicting placements.
func WithMaxAttempts(attempts int) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
	}
}

// WithRetryBaseDelay overrides the base of the linear inter-retry delay.
func WithRetryBaseDelay(delay time.Duration) Option {
	return func(s *Service) {
		if delay >= 0 {
			s.baseDelay = delay
		}
	}
}

// NewService wires the placement engine with its collaborators.
func NewService(tx ports.TxBeginner, products ports.ProductStore, orders ports.OrderStore, opts ...Option) *Service {
	s := &Service{
		tx:          tx,
		products:    products,
		orders:      orders,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultRetryBaseDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder atomically converts a basket into a persisted order while
// decrementing product stock. A version conflict on any stock write or on
// commit rolls the attempt back and re-runs it from scratch against fresh
// reads; stale reads are never reused. Validation and stock failures are
// permanent and surface immediately. Empty baskets are rejected.
func (s *Service) PlaceOrder(ctx context.Context, items []ports.OrderItem) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, mapError(domain.ErrEmptyOrder)
	}
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, mapError(domain.ErrInvalidLineProduct)
		}
		if item.Quantity <= 0 {
			return nil, mapError(domain.ErrInvalidQuantity)
		}
	}

	// A basket may name the same product more than once; stock is validated
	// and decremented against the per-product sum so it cannot go negative.
	ids := make([]uuid.UUID, 0, len(items))
	requested := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		if _, seen := requested[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		requested[item.ProductID] += item.Quantity
	}

	for attempt := 1; ; attempt++ {
		order, err := s.placeOnce(ctx, items, ids, requested)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, ports.ErrVersionConflict) {
			return nil, err
		}
		if attempt >= s.maxAttempts {
			return nil, fmt.Errorf("%w: %w", ErrConflictExhausted, err)
		}
		if err := sleep(ctx, time.Duration(attempt)*s.baseDelay); err != nil {
			return nil, err
		}
	}
}

// placeOnce runs a single placement attempt inside one transaction.
func (s *Service) placeOnce(ctx context.Context, items []ports.OrderItem, ids []uuid.UUID, requested map[uuid.UUID]int) (*domain.Order, error) {
	tx, err := s.tx.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	order, err := s.placeInTx(ctx, tx, items, ids, requested)
	if err != nil {
		// Roll back even when the attempt failed because ctx was cancelled.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			return nil, errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			return nil, errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return order, nil
}

func (s *Service) placeInTx(ctx context.Context, tx ports.Tx, items []ports.OrderItem, ids []uuid.UUID, requested map[uuid.UUID]int) (*domain.Order, error) {
	products, err := s.products.GetByIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[uuid.UUID]*domain.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &ProductsNotFoundError{ProductIDs: missing}
	}

	for _, id := range ids {
		product := byID[id]
		if product.StockQuantity < requested[id] {
			return nil, &InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Requested: requested[id],
				Available: product.StockQuantity,
			}
		}
	}

	for _, id := range ids {
		product := byID[id]
		expected := product.Version
		if err := product.DecrementStock(requested[id]); err != nil {
			return nil, err
		}
		if err := s.products.UpdateStock(ctx, tx, product, expected); err != nil {
			return nil, err
		}
	}

	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		product := byID[item.ProductID]
		lines = append(lines, domain.OrderLine{
			ID:             uuid.New(),
			ProductID:      product.ID,
			Quantity:       item.Quantity,
			UnitPriceCents: product.PriceCents,
		})
	}
	order, err := domain.NewOrder(uuid.New(), time.Now().UTC(), lines)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.orders.Insert(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return order, nil
}

// GetOrderByID loads a placed order.
func (s *Service) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ ports.Service = (*Service)(nil)
