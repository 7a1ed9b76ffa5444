package reducer

import (
	"github.com/AntonStoeckl/composable-store-go/store"
)

// Option defines a functional option for configuring Combine.
type Option func(*store.Observer) error

// WithLogger sets the logger.
//
// Info level: the summary after combining
// Error level: failed reductions.
func WithLogger(logger store.Logger) Option {
	return func(o *store.Observer) error {
		o.Logger = logger
		return nil
	}
}

// WithContextualLogger sets the context-aware logger.
func WithContextualLogger(logger store.ContextualLogger) Option {
	return func(o *store.Observer) error {
		o.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector store.MetricsCollector) Option {
	return func(o *store.Observer) error {
		o.Metrics = collector
		return nil
	}
}
