package persist

import (
	"time"

	"github.com/AntonStoeckl/composable-store-go/store"
)

type settings struct {
	startVersion     uint64
	finalSaveTimeout time.Duration
	finalSaveRetry   retryPolicy
	observer         store.Observer
}

// Option defines a functional option for configuring a Persister.
type Option func(*settings) error

// WithStartVersion continues versioning after version, typically the one returned by Hydrate.
func WithStartVersion(version uint64) Option {
	return func(s *settings) error {
		s.startVersion = version
		return nil
	}
}

// WithFinalSaveTimeout bounds the save performed when the store is closed. The default is 5 seconds.
func WithFinalSaveTimeout(timeout time.Duration) Option {
	return func(s *settings) error {
		if timeout <= 0 {
			return ErrNonPositiveTimeout
		}

		s.finalSaveTimeout = timeout

		return nil
	}
}

// WithFinalSaveRetries sets how often the save on close is attempted and the initial backoff delay.
// The delay doubles with every retry; all attempts share the final save timeout.
// The default is 3 attempts starting at 50 ms.
func WithFinalSaveRetries(maxAttempts int, baseDelay time.Duration) Option {
	return func(s *settings) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		if baseDelay < 0 {
			return ErrNegativeBaseDelay
		}

		s.finalSaveRetry = retryPolicy{maxAttempts: maxAttempts, baseDelay: baseDelay}

		return nil
	}
}

// WithLogger sets the logger.
//
// Debug level: every saved snapshot
// Info level: writer shutdown
// Warn level: retries of the final save
// Error level: failed saves.
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

// WithTracing sets the tracing collector. Every save gets its own span.
func WithTracing(collector store.TracingCollector) Option {
	return func(s *settings) error {
		s.observer.Tracing = collector
		return nil
	}
}
