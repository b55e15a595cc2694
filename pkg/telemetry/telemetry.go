package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Service name for telemetry
	serviceName = "flowquest-traversal-engine"

	// Metric names
	metricWalks          = "walk.executions.total"
	metricWalkDuration    = "walk.execution.duration"
	metricWalkSuccess     = "walk.executions.success.total"
	metricWalkFailure     = "walk.executions.failure.total"
	metricEdgesEvaluated  = "edge.evaluations.total"
	metricActionsExecuted = "action.executions.total"
	metricActionFailures  = "action.executions.failure.total"
	metricGraphQueries    = "graph.queries.total"
	metricGraphQueryDuration = "graph.query.duration"
)

// Provider manages OpenTelemetry setup and provides access to tracers and meters.
type Provider struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider trace.TracerProvider
	meter          metric.Meter
	tracer         trace.Tracer

	// Metrics instruments
	walks             metric.Int64Counter
	walkDuration      metric.Float64Histogram
	walkSuccess       metric.Int64Counter
	walkFailure       metric.Int64Counter
	edgesEvaluated    metric.Int64Counter
	actionsExecuted   metric.Int64Counter
	actionFailures    metric.Int64Counter
	graphQueries      metric.Int64Counter
	graphQueryDuration metric.Float64Histogram

	mu sync.RWMutex
}

// Config holds telemetry configuration
type Config struct {
	// ServiceName is the name of the service for telemetry
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// Environment (e.g., "production", "staging", "development")
	Environment string

	// EnableTracing enables distributed tracing
	EnableTracing bool

	// EnableMetrics enables metrics collection
	EnableMetrics bool
}

// DefaultConfig returns default telemetry configuration
func DefaultConfig() Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
	}
}

// NewProvider creates a new telemetry provider with Prometheus metrics exporter.
// It initializes OpenTelemetry with the given configuration and returns a provider
// that can be used to create tracers and record metrics.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	provider := &Provider{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if config.EnableMetrics {
		if err := provider.initMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	if config.EnableTracing {
		provider.initTracing()
	}

	return provider, nil
}

// initMetrics initializes the metrics provider with Prometheus exporter
func (p *Provider) initMetrics(res *resource.Resource) error {
	exporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	otel.SetMeterProvider(p.meterProvider)

	p.meter = p.meterProvider.Meter(serviceName)

	if err := p.createMetricInstruments(); err != nil {
		return fmt.Errorf("failed to create metric instruments: %w", err)
	}

	return nil
}

// initTracing initializes the tracing provider
func (p *Provider) initTracing() {
	p.tracerProvider = otel.GetTracerProvider()
	p.tracer = p.tracerProvider.Tracer(serviceName)
}

// createMetricInstruments creates all metric instruments
func (p *Provider) createMetricInstruments() error {
	var err error

	p.walks, err = p.meter.Int64Counter(
		metricWalks,
		metric.WithDescription("Total number of Walk calls"),
	)
	if err != nil {
		return err
	}

	p.walkDuration, err = p.meter.Float64Histogram(
		metricWalkDuration,
		metric.WithDescription("Walk call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	p.walkSuccess, err = p.meter.Int64Counter(
		metricWalkSuccess,
		metric.WithDescription("Total number of Walk calls that completed without a FlowError"),
	)
	if err != nil {
		return err
	}

	p.walkFailure, err = p.meter.Int64Counter(
		metricWalkFailure,
		metric.WithDescription("Total number of Walk calls that returned a FlowError"),
	)
	if err != nil {
		return err
	}

	p.edgesEvaluated, err = p.meter.Int64Counter(
		metricEdgesEvaluated,
		metric.WithDescription("Total number of edges evaluated during traversal"),
	)
	if err != nil {
		return err
	}

	p.actionsExecuted, err = p.meter.Int64Counter(
		metricActionsExecuted,
		metric.WithDescription("Total number of Actions dispatched"),
	)
	if err != nil {
		return err
	}

	p.actionFailures, err = p.meter.Int64Counter(
		metricActionFailures,
		metric.WithDescription("Total number of Action dispatches that failed"),
	)
	if err != nil {
		return err
	}

	p.graphQueries, err = p.meter.Int64Counter(
		metricGraphQueries,
		metric.WithDescription("Total number of Graph Gateway queries issued"),
	)
	if err != nil {
		return err
	}

	p.graphQueryDuration, err = p.meter.Float64Histogram(
		metricGraphQueryDuration,
		metric.WithDescription("Graph Gateway query duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Tracer returns the tracer for creating spans
func (p *Provider) Tracer() trace.Tracer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracer
}

// Meter returns the meter for recording metrics
func (p *Provider) Meter() metric.Meter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meter
}

// RecordWalk records metrics for one Walk call.
func (p *Provider) RecordWalk(ctx context.Context, sectionID string, duration time.Duration, success bool) {
	if p.meter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("section.id", sectionID),
	}

	p.walks.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.walkDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if success {
		p.walkSuccess.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		p.walkFailure.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordEdgeEvaluated records one edge's askWhen evaluation.
func (p *Provider) RecordEdgeEvaluated(ctx context.Context, edgeID string, matched bool) {
	if p.meter == nil {
		return
	}

	p.edgesEvaluated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("edge.id", edgeID),
		attribute.Bool("matched", matched),
	))
}

// RecordActionExecuted records one Action dispatch.
func (p *Provider) RecordActionExecuted(ctx context.Context, actionID string, actionType string, success bool) {
	if p.meter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("action.id", actionID),
		attribute.String("action.type", actionType),
	}

	p.actionsExecuted.Add(ctx, 1, metric.WithAttributes(attrs...))
	if !success {
		p.actionFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordGraphQuery records one Graph Gateway query dispatch.
func (p *Provider) RecordGraphQuery(ctx context.Context, rowCount int, duration time.Duration) {
	if p.meter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.Int("rows", rowCount),
	}

	p.graphQueries.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.graphQueryDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// Shutdown gracefully shuts down the telemetry provider
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
	}

	return nil
}
