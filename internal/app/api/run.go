package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	orderinghttp "github.com/xproducts/ordering-api/internal/domains/ordering/adapters/http"
	orderingmemory "github.com/xproducts/ordering-api/internal/domains/ordering/adapters/memory"
	orderingobs "github.com/xproducts/ordering-api/internal/domains/ordering/adapters/observability"
	orderingpostgres "github.com/xproducts/ordering-api/internal/domains/ordering/adapters/persistence/postgres"
	orderingapp "github.com/xproducts/ordering-api/internal/domains/ordering/application"
	orderingports "github.com/xproducts/ordering-api/internal/domains/ordering/ports"
	"github.com/xproducts/ordering-api/internal/platform/migrations"
	platformobservability "github.com/xproducts/ordering-api/internal/platform/observability"
	platformpostgres "github.com/xproducts/ordering-api/internal/platform/postgres"
)

// Run boots the ordering HTTP API with observability and stores wired.
func Run(ctx context.Context) error {
	const serviceName = "ordering-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	stores, cleanupStores := buildStores(ctx, cfg, logger)
	defer cleanupStores()

	var placementOpts []orderingapp.Option
	if cfg.PlacementAttempts > 0 {
		placementOpts = append(placementOpts, orderingapp.WithMaxAttempts(cfg.PlacementAttempts))
	}
	if cfg.PlacementRetryDelay > 0 {
		placementOpts = append(placementOpts, orderingapp.WithRetryBaseDelay(cfg.PlacementRetryDelay))
	}
	coreOrdering := orderingapp.NewService(stores.tx, stores.products, stores.orders, placementOpts...)
	orderingService := orderingobs.New(
		coreOrdering,
		orderingobs.WithLogger(logger),
		orderingobs.WithTracer(instruments.Tracer("internal.ordering.application")),
		orderingobs.WithMeter(instruments.Meter("internal.ordering.application")),
	)

	coreCatalog := orderingapp.NewCatalog(stores.catalog)
	catalogService := orderingobs.NewCatalog(
		coreCatalog,
		orderingobs.WithCatalogLogger(logger),
		orderingobs.WithCatalogTracer(instruments.Tracer("internal.ordering.application")),
		orderingobs.WithCatalogMeter(instruments.Meter("internal.ordering.application")),
	)

	router := orderinghttp.NewRouter(
		orderinghttp.NewOrderAPI(orderingService),
		orderinghttp.NewProductAPI(catalogService),
	)
	router.Use(otelgin.Middleware(serviceName))

	addr := ":" + cfg.Port
	logger.Info("ordering API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("ordering API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// stores groups every persistence port the services need.
type stores struct {
	tx       orderingports.TxBeginner
	products orderingports.ProductStore
	orders   orderingports.OrderStore
	catalog  orderingports.ProductCatalog
}

func buildStores(ctx context.Context, cfg Config, logger *slog.Logger) (stores, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory stores")
		return memoryStores(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to in-memory stores", slog.String("error", err.Error()))
		return memoryStores(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to in-memory stores", slog.String("error", err.Error()))
		return memoryStores(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to in-memory stores", slog.String("error", err.Error()))
		sqlDB.Close()
		return memoryStores(), func() {}
	}
	logger.Info("stores configured with postgres")
	productRepo := orderingpostgres.NewProductRepository(db)
	return stores{
		tx:       orderingpostgres.NewTxManager(db),
		products: productRepo,
		orders:   orderingpostgres.NewOrderRepository(db),
		catalog:  productRepo,
	}, func() { _ = sqlDB.Close() }
}

func memoryStores() stores {
	store := orderingmemory.NewStore()
	return stores{
		tx:       store,
		products: store,
		orders:   store,
		catalog:  store.Catalog(),
	}
}
