package postgresengine

import (
	"github.com/AntonStoeckl/composable-store-go/store"
)

// Option defines a functional option for configuring a SnapshotStore.
type Option func(*SnapshotStore) error

// WithTableName sets a custom table name. The default is "store_snapshots".
func WithTableName(tableName string) Option {
	return func(s *SnapshotStore) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		s.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the SnapshotStore.
//
// Debug level: executed SQL and durations
// Warn level: rows that could not be closed
// Error level: failed statements.
func WithLogger(logger store.Logger) Option {
	return func(s *SnapshotStore) error {
		s.observer.Logger = logger
		return nil
	}
}

// WithContextualLogger sets the context-aware logger for the SnapshotStore.
func WithContextualLogger(logger store.ContextualLogger) Option {
	return func(s *SnapshotStore) error {
		s.observer.ContextualLogger = logger
		return nil
	}
}
