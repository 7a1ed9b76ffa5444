package store

import (
	"context"
)

// Option defines a functional option for configuring a StateStore.
type Option[S any] func(*StateStore[S]) error

// WithName sets the store name used in logs, metrics and persisted snapshots.
func WithName[S any](name string) Option[S] {
	return func(s *StateStore[S]) error {
		if name == "" {
			return ErrEmptyStoreName
		}

		s.name = name

		return nil
	}
}

// WithMiddleware appends middlewares to the dispatch chain.
func WithMiddleware[S any](middlewares ...Middleware[S]) Option[S] {
	return func(s *StateStore[S]) error {
		for _, mw := range middlewares {
			if mw == nil {
				return ErrNilMiddleware
			}
		}

		s.middlewares = append(s.middlewares, middlewares...)

		return nil
	}
}

// WithContext sets the parent of the store's lifetime context.
// Cancelling it has the same effect on background work as closing the store.
func WithContext[S any](ctx context.Context) Option[S] {
	return func(s *StateStore[S]) error {
		if ctx == nil {
			return ErrNilContext
		}

		s.parentCtx = ctx

		return nil
	}
}

// WithLogger sets the logger for the StateStore.
//
// Debug level: every dispatch with its duration
// Info level: store creation and closing
// Error level: reducer failures.
func WithLogger[S any](logger Logger) Option[S] {
	return func(s *StateStore[S]) error {
		s.observer.Logger = logger
		return nil
	}
}

// WithContextualLogger sets the context-aware logger for the StateStore.
func WithContextualLogger[S any](logger ContextualLogger) Option[S] {
	return func(s *StateStore[S]) error {
		s.observer.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the StateStore.
func WithMetrics[S any](collector MetricsCollector) Option[S] {
	return func(s *StateStore[S]) error {
		s.observer.Metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the StateStore.
func WithTracing[S any](collector TracingCollector) Option[S] {
	return func(s *StateStore[S]) error {
		s.observer.Tracing = collector
		return nil
	}
}
