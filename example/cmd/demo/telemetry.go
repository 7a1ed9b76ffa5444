package main

import (
	"context"
	"errors"
	"log/slog"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/AntonStoeckl/composable-store-go/example/todo"
	"github.com/AntonStoeckl/composable-store-go/store"
	"github.com/AntonStoeckl/composable-store-go/store/effects"
	"github.com/AntonStoeckl/composable-store-go/store/oteladapters"
	"github.com/AntonStoeckl/composable-store-go/store/persist"
	"github.com/AntonStoeckl/composable-store-go/store/reducer"
)

const instrumentationName = "github.com/AntonStoeckl/composable-store-go/example/cmd/demo"

// telemetry hands the configured observability collaborators to every component.
// Without observability only the plain logger is wired.
type telemetry struct {
	logger           *slog.Logger
	contextualLogger store.ContextualLogger
	metrics          store.MetricsCollector
	tracing          store.TracingCollector

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	reader         *sdkmetric.ManualReader
}

func newTelemetry(enabled bool, logger *slog.Logger) *telemetry {
	t := &telemetry{logger: logger}
	if !enabled {
		return t
	}

	t.reader = sdkmetric.NewManualReader()
	t.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(t.reader))
	t.tracerProvider = sdktrace.NewTracerProvider(sdktrace.WithSyncer(&slogSpanExporter{logger: logger}))

	t.contextualLogger = oteladapters.NewSlogBridgeLoggerWithHandler(logger.Handler())
	t.metrics = oteladapters.NewMetricsCollector(t.meterProvider.Meter(instrumentationName))
	t.tracing = oteladapters.NewTracingCollector(t.tracerProvider.Tracer(instrumentationName))

	return t
}

func (t *telemetry) enabled() bool {
	return t.tracerProvider != nil
}

func (t *telemetry) storeOptions(name string) []store.Option[todo.State] {
	options := []store.Option[todo.State]{store.WithName[todo.State](name)}
	if !t.enabled() {
		return append(options, store.WithLogger[todo.State](t.logger))
	}

	return append(options,
		store.WithContextualLogger[todo.State](t.contextualLogger),
		store.WithMetrics[todo.State](t.metrics),
		store.WithTracing[todo.State](t.tracing))
}

func (t *telemetry) reducerOptions() []reducer.Option {
	if !t.enabled() {
		return []reducer.Option{reducer.WithLogger(t.logger)}
	}

	return []reducer.Option{reducer.WithContextualLogger(t.contextualLogger), reducer.WithMetrics(t.metrics)}
}

func (t *telemetry) effectOptions() []effects.Option {
	if !t.enabled() {
		return []effects.Option{effects.WithLogger(t.logger)}
	}

	return []effects.Option{
		effects.WithContextualLogger(t.contextualLogger),
		effects.WithMetrics(t.metrics),
		effects.WithTracing(t.tracing),
	}
}

func (t *telemetry) persistOptions() []persist.Option {
	if !t.enabled() {
		return []persist.Option{persist.WithLogger(t.logger)}
	}

	return []persist.Option{
		persist.WithContextualLogger(t.contextualLogger),
		persist.WithMetrics(t.metrics),
		persist.WithTracing(t.tracing),
	}
}

// shutdown logs a summary of the collected metrics and stops the providers.
func (t *telemetry) shutdown(ctx context.Context) error {
	if !t.enabled() {
		return nil
	}

	var rm metricdata.ResourceMetrics
	if err := t.reader.Collect(ctx, &rm); err == nil {
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				t.logger.Info("metric collected", "metric", m.Name, "unit", m.Unit)
			}
		}
	}

	return errors.Join(t.tracerProvider.Shutdown(ctx), t.meterProvider.Shutdown(ctx))
}

// slogSpanExporter writes finished spans to the logger at debug level.
type slogSpanExporter struct {
	logger *slog.Logger
}

func (e *slogSpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		e.logger.DebugContext(ctx, "span finished",
			"span", span.Name(),
			"trace_id", span.SpanContext().TraceID().String(),
			"status", span.Status().Code.String(),
			"duration_ms", store.ToMilliseconds(span.EndTime().Sub(span.StartTime())))
	}

	return nil
}

func (e *slogSpanExporter) Shutdown(context.Context) error {
	return nil
}
