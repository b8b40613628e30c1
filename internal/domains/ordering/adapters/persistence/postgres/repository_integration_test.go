//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/xproducts/ordering-api/internal/domains/ordering/application"
	"github.com/xproducts/ordering-api/internal/domains/ordering/domain"
	"github.com/xproducts/ordering-api/internal/domains/ordering/ports"
	"github.com/xproducts/ordering-api/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("ordering_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// Run migrations
	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedProductRow(t *testing.T, db *gorm.DB, name string, priceCents int64, stock int) uuid.UUID {
	t.Helper()
	product, err := domain.NewProduct(uuid.New(), name, nil, priceCents, stock)
	require.NoError(t, err)
	require.NoError(t, NewProductRepository(db).Create(context.Background(), product))
	return product.ID
}

func TestProductRepository_UpdateStockChecksVersion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	productID := seedProductRow(t, db, "Keyboard", 12900, 10)

	txm := NewTxManager(db)
	repo := NewProductRepository(db)

	tx, err := txm.Begin(ctx)
	require.NoError(t, err)

	products, err := repo.GetByIDs(ctx, tx, []uuid.UUID{productID})
	require.NoError(t, err)
	require.Len(t, products, 1)

	product := products[0]
	require.NoError(t, product.DecrementStock(3))
	require.NoError(t, repo.UpdateStock(ctx, tx, product, 1))
	require.NoError(t, tx.Commit(ctx))

	// A write conditioned on the old version must affect zero rows.
	tx2, err := txm.Begin(ctx)
	require.NoError(t, err)
	stale := *product
	err = repo.UpdateStock(ctx, tx2, &stale, 1)
	assert.ErrorIs(t, err, ports.ErrVersionConflict)
	require.NoError(t, tx2.Rollback(ctx))

	current, err := repo.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 7, current.StockQuantity)
	assert.Equal(t, int64(2), current.Version)
}

func TestOrderRepository_InsertAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	txm := NewTxManager(db)
	orders := NewOrderRepository(db)

	lines := []domain.OrderLine{
		{ID: uuid.New(), ProductID: uuid.New(), Quantity: 2, UnitPriceCents: 1500},
		{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1, UnitPriceCents: 250},
	}
	order, err := domain.NewOrder(uuid.New(), time.Now().UTC(), lines)
	require.NoError(t, err)

	tx, err := txm.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, orders.Insert(ctx, tx, order))
	require.NoError(t, tx.Commit(ctx))

	loaded, err := orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.TotalCents, loaded.TotalCents)
	require.Len(t, loaded.Lines, 2)
	// Lines come back in basket sequence.
	assert.Equal(t, lines[0].ProductID, loaded.Lines[0].ProductID)
	assert.Equal(t, lines[1].ProductID, loaded.Lines[1].ProductID)

	_, err = orders.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ports.ErrOrderNotFound)
}

func TestOrderRepository_RollbackDiscardsOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	txm := NewTxManager(db)
	orders := NewOrderRepository(db)

	order, err := domain.NewOrder(uuid.New(), time.Now().UTC(), []domain.OrderLine{
		{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1, UnitPriceCents: 100},
	})
	require.NoError(t, err)

	tx, err := txm.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, orders.Insert(ctx, tx, order))
	require.NoError(t, tx.Rollback(ctx))

	_, err = orders.GetByID(ctx, order.ID)
	assert.ErrorIs(t, err, ports.ErrOrderNotFound)
}

func TestProductRepository_CatalogCRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewProductRepository(db)

	desc := "wireless"
	product, err := domain.NewProduct(uuid.New(), "Mouse", &desc, 2500, 30)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, product))

	loaded, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mouse", loaded.Name)
	require.NotNil(t, loaded.Description)
	assert.Equal(t, "wireless", *loaded.Description)

	loaded.Name = "Mouse Pro"
	loaded.PriceCents = 3500
	require.NoError(t, repo.Update(ctx, loaded, 1))
	assert.Equal(t, int64(2), loaded.Version)

	// A second update on the already consumed version fails.
	staleUpdate := *loaded
	err = repo.Update(ctx, &staleUpdate, 1)
	assert.ErrorIs(t, err, ports.ErrVersionConflict)

	require.NoError(t, repo.Delete(ctx, product.ID))
	_, err = repo.GetByID(ctx, product.ID)
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, product.ID), ports.ErrProductNotFound)
}

func TestPlacement_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	keyboardID := seedProductRow(t, db, "Keyboard", 12900, 10)
	mouseID := seedProductRow(t, db, "Mouse", 2500, 4)

	repo := NewProductRepository(db)
	svc := application.NewService(NewTxManager(db), repo, NewOrderRepository(db))

	order, err := svc.PlaceOrder(ctx, []ports.OrderItem{
		{ProductID: keyboardID, Quantity: 2},
		{ProductID: mouseID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2*12900+2500), order.TotalCents)

	keyboard, err := repo.GetByID(ctx, keyboardID)
	require.NoError(t, err)
	assert.Equal(t, 8, keyboard.StockQuantity)
	assert.Equal(t, int64(2), keyboard.Version)

	// Insufficient stock rolls everything back.
	_, err = svc.PlaceOrder(ctx, []ports.OrderItem{{ProductID: mouseID, Quantity: 99}})
	var stockErr *application.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, mouseID, stockErr.ProductID)

	mouse, err := repo.GetByID(ctx, mouseID)
	require.NoError(t, err)
	assert.Equal(t, 3, mouse.StockQuantity)
}
