package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/google/uuid"

	"github.com/xproducts/ordering-api/internal/domains/ordering/application"
	orderingdomain "github.com/xproducts/ordering-api/internal/domains/ordering/domain"
	orderingports "github.com/xproducts/ordering-api/internal/domains/ordering/ports"
)

const tracerName = "github.com/xproducts/ordering-api/internal/domains/ordering/adapters/observability/service"

// Service decorates the placement service with tracing, logging, and metrics.
type Service struct {
	inner   orderingports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core placement service.
func New(inner orderingports.Service, opts ...Option) orderingports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, items []orderingports.OrderItem) (*orderingdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderingService.PlaceOrder",
		trace.WithAttributes(attribute.Int("order.items", len(items))))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int("items", len(items)))
	result, err := s.inner.PlaceOrder(ctx, items)
	if err != nil {
		s.metrics.recordFailed(ctx, failureKind(err))
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.Int("items", len(items)))
	}
	span.SetAttributes(attribute.String("order.id", result.ID.String()), attribute.Int64("order.total_cents", result.TotalCents))
	s.metrics.recordPlaced(ctx)
	s.logInfo(ctx, "order placed",
		slog.String("order.id", result.ID.String()),
		slog.Int("lines", len(result.Lines)),
		slog.Int64("total_cents", result.TotalCents))
	return result, nil
}

func (s *Service) GetOrderByID(ctx context.Context, id uuid.UUID) (*orderingdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderingService.GetOrderByID",
		trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	result, err := s.inner.GetOrderByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id.String()))
	}
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

// failureKind collapses the error taxonomy into a low-cardinality label.
func failureKind(err error) string {
	var notFound *application.ProductsNotFoundError
	var insufficient *application.InsufficientStockError
	switch {
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &insufficient):
		return "insufficient_stock"
	case errors.Is(err, application.ErrConflictExhausted):
		return "conflict_exhausted"
	case errors.Is(err, application.ErrInvalidInput):
		return "invalid_input"
	default:
		return "infrastructure"
	}
}

type serviceMetrics struct {
	ordersPlaced metric.Int64Counter
	ordersFailed metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("ordering.service.orders_placed", metric.WithDescription("Number of orders placed"))
	ordersFailed, _ := m.Int64Counter("ordering.service.orders_failed", metric.WithDescription("Number of failed placements by kind"))
	return serviceMetrics{ordersPlaced: ordersPlaced, ordersFailed: ordersFailed}
}

func (m serviceMetrics) recordPlaced(ctx context.Context) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordFailed(ctx context.Context, kind string) {
	if m.ordersFailed != nil {
		m.ordersFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("failure.kind", kind)))
	}
}

var _ orderingports.Service = (*Service)(nil)
