package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/xproducts/ordering-api/internal/domains/ordering/application"
	"github.com/xproducts/ordering-api/internal/domains/ordering/domain"
	"github.com/xproducts/ordering-api/internal/domains/ordering/ports"
)

func seedProduct(t *testing.T, store *Store, name string, priceCents int64, stock int) uuid.UUID {
	t.Helper()
	product, err := domain.NewProduct(uuid.New(), name, nil, priceCents, stock)
	require.NoError(t, err)
	require.NoError(t, store.Catalog().Create(context.Background(), product))
	return product.ID
}

func TestStore_CommitMakesWritesVisible(t *testing.T) {
	store := NewStore()
	productID := seedProduct(t, store, "Keyboard", 1000, 10)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	products, err := store.GetByIDs(ctx, tx, []uuid.UUID{productID})
	require.NoError(t, err)
	require.Len(t, products, 1)

	product := products[0]
	require.NoError(t, product.DecrementStock(4))
	require.NoError(t, store.UpdateStock(ctx, tx, product, 1))

	// Not visible before commit.
	committed, err := store.Catalog().GetByID(ctx, productID)
	require.NoError(t, err)
	require.Equal(t, 10, committed.StockQuantity)

	require.NoError(t, tx.Commit(ctx))

	committed, err = store.Catalog().GetByID(ctx, productID)
	require.NoError(t, err)
	require.Equal(t, 6, committed.StockQuantity)
	require.Equal(t, int64(2), committed.Version)
}

func TestStore_RollbackDiscardsWrites(t *testing.T) {
	store := NewStore()
	productID := seedProduct(t, store, "Keyboard", 1000, 10)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	products, err := store.GetByIDs(ctx, tx, []uuid.UUID{productID})
	require.NoError(t, err)
	product := products[0]
	require.NoError(t, product.DecrementStock(4))
	require.NoError(t, store.UpdateStock(ctx, tx, product, 1))
	require.NoError(t, tx.Rollback(ctx))

	committed, err := store.Catalog().GetByID(ctx, productID)
	require.NoError(t, err)
	require.Equal(t, 10, committed.StockQuantity)
	require.Equal(t, int64(1), committed.Version)
}

func TestStore_StaleWriteDetectedAtWriteTime(t *testing.T) {
	store := NewStore()
	productID := seedProduct(t, store, "Keyboard", 1000, 10)
	ctx := context.Background()

	// Two transactions read the same version.
	tx1, err := store.Begin(ctx)
	require.NoError(t, err)
	tx2, err := store.Begin(ctx)
	require.NoError(t, err)

	read1, err := store.GetByIDs(ctx, tx1, []uuid.UUID{productID})
	require.NoError(t, err)
	read2, err := store.GetByIDs(ctx, tx2, []uuid.UUID{productID})
	require.NoError(t, err)

	first := read1[0]
	require.NoError(t, first.DecrementStock(1))
	require.NoError(t, store.UpdateStock(ctx, tx1, first, 1))
	require.NoError(t, tx1.Commit(ctx))

	second := read2[0]
	require.NoError(t, second.DecrementStock(1))
	err = store.UpdateStock(ctx, tx2, second, 1)
	require.ErrorIs(t, err, ports.ErrVersionConflict)
	require.NoError(t, tx2.Rollback(ctx))

	committed, err := store.Catalog().GetByID(ctx, productID)
	require.NoError(t, err)
	require.Equal(t, 9, committed.StockQuantity)
}

func TestStore_StaleWriteDetectedAtCommitTime(t *testing.T) {
	store := NewStore()
	productID := seedProduct(t, store, "Keyboard", 1000, 10)
	ctx := context.Background()

	tx1, err := store.Begin(ctx)
	require.NoError(t, err)
	tx2, err := store.Begin(ctx)
	require.NoError(t, err)

	read1, err := store.GetByIDs(ctx, tx1, []uuid.UUID{productID})
	require.NoError(t, err)
	read2, err := store.GetByIDs(ctx, tx2, []uuid.UUID{productID})
	require.NoError(t, err)

	// Both stage before either commits: the write-time check passes for both,
	// the commit-time re-check must fail the loser.
	first := read1[0]
	require.NoError(t, first.DecrementStock(1))
	require.NoError(t, store.UpdateStock(ctx, tx1, first, 1))

	second := read2[0]
	require.NoError(t, second.DecrementStock(2))
	require.NoError(t, store.UpdateStock(ctx, tx2, second, 1))

	require.NoError(t, tx1.Commit(ctx))
	require.ErrorIs(t, tx2.Commit(ctx), ports.ErrVersionConflict)

	committed, err := store.Catalog().GetByID(ctx, productID)
	require.NoError(t, err)
	require.Equal(t, 9, committed.StockQuantity)
	require.Equal(t, int64(2), committed.Version)
}

func TestStore_CatalogUpdateRejectsStaleVersion(t *testing.T) {
	store := NewStore()
	productID := seedProduct(t, store, "Keyboard", 1000, 10)
	ctx := context.Background()
	catalog := store.Catalog()

	product, err := catalog.GetByID(ctx, productID)
	require.NoError(t, err)

	product.PriceCents = 1200
	require.NoError(t, catalog.Update(ctx, product, 1))

	stale := *product
	stale.PriceCents = 900
	require.ErrorIs(t, catalog.Update(ctx, &stale, 1), ports.ErrVersionConflict)

	current, err := catalog.GetByID(ctx, productID)
	require.NoError(t, err)
	require.Equal(t, int64(1200), current.PriceCents)
}

// Concurrent placements against the same product must serialize through the
// version token: total sold never exceeds the seeded stock and stock never
// goes negative.
func TestStore_ConcurrentPlacements(t *testing.T) {
	store := NewStore()
	productID := seedProduct(t, store, "Keyboard", 500, 50)
	svc := application.NewService(store, store, store,
		application.WithMaxAttempts(20),
		application.WithRetryBaseDelay(0),
	)

	const workers = 10
	var wg sync.WaitGroup
	totals := make([]int64, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			order, err := svc.PlaceOrder(context.Background(), []ports.OrderItem{{ProductID: productID, Quantity: 7}})
			if err != nil {
				errs[i] = err
				return
			}
			totals[i] = order.TotalCents
		}(i)
	}
	wg.Wait()

	placed := 0
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			continue
		}
		placed++
		require.Equal(t, int64(7*500), totals[i])
	}

	committed, err := store.Catalog().GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, committed.StockQuantity, 0)
	require.Equal(t, 50-placed*7, committed.StockQuantity)
	require.LessOrEqual(t, placed, 7) // 50/7
}
