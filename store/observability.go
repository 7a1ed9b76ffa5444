package store

import (
	"context"
	"math"
	"time"
)

// Logger is the leveled, key-value logger used by stores and composers. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger is a context-aware logger, e.g. for trace correlation. *slog.Logger satisfies it.
// When both a Logger and a ContextualLogger are configured, both receive every message.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector receives dispatch, reducer, effect and persistence metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
// It is optional: components use the context-aware methods when the collector implements them.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

// SpanContext represents an active tracing span.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector starts and finishes spans around dispatches and effect runs.
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
}

const (
	// StatusSuccess marks a successful operation in metrics labels and spans.
	StatusSuccess = "success"

	// StatusError marks a failed operation in metrics labels and spans.
	StatusError = "error"

	// StatusCanceled marks an operation stopped by context cancellation.
	StatusCanceled = "canceled"

	// LabelActionType is the metrics label and log attribute carrying the action kind.
	LabelActionType = "action_type"

	// LabelStatus is the metrics label carrying the outcome.
	LabelStatus = "status"

	// LabelStoreName is the metrics label carrying the store name.
	LabelStoreName = "store_name"
)

// Observer bundles the optional observability collaborators of a component and guards every call
// against unset collaborators. The zero value is ready to use and records nothing.
type Observer struct {
	Logger           Logger
	ContextualLogger ContextualLogger
	Metrics          MetricsCollector
	Tracing          TracingCollector
}

// Debug logs at debug level to all configured loggers.
func (o Observer) Debug(ctx context.Context, msg string, args ...any) {
	if o.Logger != nil {
		o.Logger.Debug(msg, args...)
	}

	if o.ContextualLogger != nil {
		o.ContextualLogger.DebugContext(ctx, msg, args...)
	}
}

// Info logs at info level to all configured loggers.
func (o Observer) Info(ctx context.Context, msg string, args ...any) {
	if o.Logger != nil {
		o.Logger.Info(msg, args...)
	}

	if o.ContextualLogger != nil {
		o.ContextualLogger.InfoContext(ctx, msg, args...)
	}
}

// Warn logs at warn level to all configured loggers.
func (o Observer) Warn(ctx context.Context, msg string, args ...any) {
	if o.Logger != nil {
		o.Logger.Warn(msg, args...)
	}

	if o.ContextualLogger != nil {
		o.ContextualLogger.WarnContext(ctx, msg, args...)
	}
}

// Error logs err at error level to all configured loggers.
func (o Observer) Error(ctx context.Context, msg string, err error, args ...any) {
	allArgs := make([]any, 0, len(args)+2)
	allArgs = append(allArgs, "error", err.Error())
	allArgs = append(allArgs, args...)

	if o.Logger != nil {
		o.Logger.Error(msg, allArgs...)
	}

	if o.ContextualLogger != nil {
		o.ContextualLogger.ErrorContext(ctx, msg, allArgs...)
	}
}

// RecordDuration records a duration, using the context-aware method when available.
func (o Observer) RecordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if o.Metrics == nil {
		return
	}

	if contextual, ok := o.Metrics.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	o.Metrics.RecordDuration(metric, duration, labels)
}

// IncrementCounter increments a counter, using the context-aware method when available.
func (o Observer) IncrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if o.Metrics == nil {
		return
	}

	if contextual, ok := o.Metrics.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	o.Metrics.IncrementCounter(metric, labels)
}

// RecordValue records a value, using the context-aware method when available.
func (o Observer) RecordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if o.Metrics == nil {
		return
	}

	if contextual, ok := o.Metrics.(ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	o.Metrics.RecordValue(metric, value, labels)
}

// StartSpan starts a span if tracing is configured. The returned SpanContext is nil otherwise.
func (o Observer) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext) {
	if o.Tracing == nil {
		return ctx, nil
	}

	return o.Tracing.StartSpan(ctx, name, attrs)
}

// FinishSpan finishes a span started with StartSpan. It is a no-op for a nil span.
func (o Observer) FinishSpan(span SpanContext, status string, attrs map[string]string) {
	if o.Tracing == nil || span == nil {
		return
	}

	o.Tracing.FinishSpan(span, status, attrs)
}

// ToMilliseconds converts a duration to float64 milliseconds with 3 decimal places.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
