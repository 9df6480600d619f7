package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/zatekoja/carefinder"

// Metrics holds all application metrics
type Metrics struct {
	RequestCount       metric.Int64Counter
	RequestDuration    metric.Float64Histogram
	StoreQueryDuration metric.Float64Histogram
	SearchResultCount  metric.Int64Histogram
	GeocodeCount       metric.Int64Counter
	CacheHitCount      metric.Int64Counter
	CacheMissCount     metric.Int64Counter
}

// Setup initializes tracing, metrics export and runtime instrumentation.
// The returned function flushes and stops every provider.
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx)
		return nil, err
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(30*time.Second))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(15 * time.Second)); err != nil {
		_ = tracerProvider.Shutdown(ctx)
		_ = meterProvider.Shutdown(ctx)
		return nil, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(tracerProvider.Shutdown(ctx), meterProvider.Shutdown(ctx))
	}
	return shutdown, nil
}

// InitMetrics initializes application metrics on the global meter provider
func InitMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(instrumentationName))
}

// NewMetrics creates the application instruments on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var m Metrics
	var err error

	if m.RequestCount, err = meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.RequestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.StoreQueryDuration, err = meter.Float64Histogram(
		"store.query.duration",
		metric.WithDescription("Provider store query duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.SearchResultCount, err = meter.Int64Histogram(
		"search.result.count",
		metric.WithDescription("Number of results returned per search"),
	); err != nil {
		return nil, err
	}
	if m.GeocodeCount, err = meter.Int64Counter(
		"geocode.request.count",
		metric.WithDescription("Number of geocoding lookups by outcome"),
	); err != nil {
		return nil, err
	}
	if m.CacheHitCount, err = meter.Int64Counter(
		"cache.hit.count",
		metric.WithDescription("Number of cache hits"),
	); err != nil {
		return nil, err
	}
	if m.CacheMissCount, err = meter.Int64Counter(
		"cache.miss.count",
		metric.WithDescription("Number of cache misses"),
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, spanName)
}

// RecordError records an error in the span and marks it failed
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanAttributes sets attributes on a span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordRequestMetric records an HTTP request
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, path string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	)
	metrics.RequestCount.Add(ctx, 1, attrs)
	metrics.RequestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordStoreMetric records a provider store operation
func RecordStoreMetric(ctx context.Context, metrics *Metrics, operation string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}
	metrics.StoreQueryDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(
		attribute.String("store.operation", operation),
		attribute.Bool("error", err != nil),
	))
}

// RecordSearchResults records how many results a search returned
func RecordSearchResults(ctx context.Context, metrics *Metrics, count int) {
	if metrics == nil {
		return
	}
	metrics.SearchResultCount.Record(ctx, int64(count))
}

// RecordGeocode records a geocoding lookup outcome ("found", "not_found" or "error")
func RecordGeocode(ctx context.Context, metrics *Metrics, outcome string) {
	if metrics == nil {
		return
	}
	metrics.GeocodeCount.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordCacheHit records a cache hit
func RecordCacheHit(ctx context.Context, metrics *Metrics, route string) {
	if metrics == nil {
		return
	}
	metrics.CacheHitCount.Add(ctx, 1, metric.WithAttributes(attribute.String("http.route", route)))
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(ctx context.Context, metrics *Metrics, route string) {
	if metrics == nil {
		return
	}
	metrics.CacheMissCount.Add(ctx, 1, metric.WithAttributes(attribute.String("http.route", route)))
}
