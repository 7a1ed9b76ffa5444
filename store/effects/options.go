package effects

import (
	"context"

	"github.com/AntonStoeckl/composable-store-go/store"
)

// ErrorHandler receives the errors of an effect run: errors yielded by a stream and errors returned
// by re-dispatching a yielded action. action is the action that triggered the run.
type ErrorHandler func(ctx context.Context, action store.Action, err error)

type settings struct {
	observer     store.Observer
	errorHandler ErrorHandler
}

// Option defines a functional option for configuring Combine.
type Option func(*settings) error

// WithLogger sets the logger.
//
// Debug level: start and end of every effect run
// Info level: the summary after combining
// Error level: effect errors, unless an ErrorHandler is configured.
func WithLogger(logger store.Logger) Option {
	return func(s *settings) error {
		s.observer.Logger = logger
		return nil
	}
}

// WithContextualLogger sets the context-aware logger.
func WithContextualLogger(logger store.ContextualLogger) Option {
	return func(s *settings) error {
		s.observer.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector store.MetricsCollector) Option {
	return func(s *settings) error {
		s.observer.Metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector. Every effect run gets its own span.
func WithTracing(collector store.TracingCollector) Option {
	return func(s *settings) error {
		s.observer.Tracing = collector
		return nil
	}
}

// WithErrorHandler routes effect errors to handler instead of logging them.
// handler is called from the goroutine of the effect run.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(s *settings) error {
		s.errorHandler = handler
		return nil
	}
}
