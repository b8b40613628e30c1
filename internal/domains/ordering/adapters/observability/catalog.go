package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/google/uuid"

	orderingdomain "github.com/xproducts/ordering-api/internal/domains/ordering/domain"
	orderingports "github.com/xproducts/ordering-api/internal/domains/ordering/ports"
)

const catalogTracerName = "github.com/xproducts/ordering-api/internal/domains/ordering/adapters/observability/catalog"

// Catalog decorates the catalog service with tracing, logging, and metrics.
type Catalog struct {
	inner   orderingports.CatalogService
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics catalogMetrics
}

type CatalogOption func(*Catalog)

func WithCatalogLogger(logger *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		c.logger = logger
	}
}

func WithCatalogTracer(tr trace.Tracer) CatalogOption {
	return func(c *Catalog) {
		c.tracer = tr
	}
}

func WithCatalogMeter(m metric.Meter) CatalogOption {
	return func(c *Catalog) {
		c.metrics = newCatalogMetrics(m)
	}
}

// NewCatalog wraps the core catalog service.
func NewCatalog(inner orderingports.CatalogService, opts ...CatalogOption) orderingports.CatalogService {
	c := &Catalog{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(catalogTracerName),
		metrics: newCatalogMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.tracer == nil {
		c.tracer = nooptrace.NewTracerProvider().Tracer(catalogTracerName)
	}
	return c
}

func (c *Catalog) CreateProduct(ctx context.Context, input orderingports.ProductInput) (*orderingdomain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogService.CreateProduct")
	defer span.End()

	result, err := c.inner.CreateProduct(ctx, input)
	if err != nil {
		return nil, c.handleError(ctx, span, err, "failed to create product")
	}
	c.metrics.recordCreated(ctx)
	c.logInfo(ctx, "product created", slog.String("product.id", result.ID.String()), slog.String("name", result.Name))
	return result, nil
}

func (c *Catalog) GetProduct(ctx context.Context, id uuid.UUID) (*orderingdomain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogService.GetProduct",
		trace.WithAttributes(attribute.String("product.id", id.String())))
	defer span.End()

	result, err := c.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, c.handleError(ctx, span, err, "failed to load product", slog.String("product.id", id.String()))
	}
	return result, nil
}

func (c *Catalog) UpdateProduct(ctx context.Context, id uuid.UUID, input orderingports.ProductInput) (*orderingdomain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogService.UpdateProduct",
		trace.WithAttributes(attribute.String("product.id", id.String())))
	defer span.End()

	result, err := c.inner.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, c.handleError(ctx, span, err, "failed to update product", slog.String("product.id", id.String()))
	}
	c.logInfo(ctx, "product updated", slog.String("product.id", id.String()), slog.Int64("version", result.Version))
	return result, nil
}

func (c *Catalog) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	ctx, span := c.tracer.Start(ctx, "CatalogService.DeleteProduct",
		trace.WithAttributes(attribute.String("product.id", id.String())))
	defer span.End()

	if err := c.inner.DeleteProduct(ctx, id); err != nil {
		return c.handleError(ctx, span, err, "failed to delete product", slog.String("product.id", id.String()))
	}
	c.metrics.recordDeleted(ctx)
	c.logInfo(ctx, "product deleted", slog.String("product.id", id.String()))
	return nil
}

func (c *Catalog) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (c *Catalog) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if c.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		c.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type catalogMetrics struct {
	productsCreated metric.Int64Counter
	productsDeleted metric.Int64Counter
}

func newCatalogMetrics(m metric.Meter) catalogMetrics {
	if m == nil {
		return catalogMetrics{}
	}
	productsCreated, _ := m.Int64Counter("catalog.service.products_created", metric.WithDescription("Number of products created"))
	productsDeleted, _ := m.Int64Counter("catalog.service.products_deleted", metric.WithDescription("Number of products deleted"))
	return catalogMetrics{productsCreated: productsCreated, productsDeleted: productsDeleted}
}

func (m catalogMetrics) recordCreated(ctx context.Context) {
	if m.productsCreated != nil {
		m.productsCreated.Add(ctx, 1)
	}
}

func (m catalogMetrics) recordDeleted(ctx context.Context) {
	if m.productsDeleted != nil {
		m.productsDeleted.Add(ctx, 1)
	}
}

var _ orderingports.CatalogService = (*Catalog)(nil)
