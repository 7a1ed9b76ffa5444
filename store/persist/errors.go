package persist

import (
	"errors"
)

var (
	// ErrSnapshotNotFound is returned when no snapshot exists for a store name.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrEmptyStoreName is returned when a snapshot or persister has no store name.
	ErrEmptyStoreName = errors.New("store name must not be empty")

	// ErrInvalidSnapshotJSON is returned when snapshot data is not valid JSON.
	ErrInvalidSnapshotJSON = errors.New("snapshot json is not valid")

	// ErrEncodingStateFailed is returned when a state cannot be encoded as JSON.
	ErrEncodingStateFailed = errors.New("encoding state failed")

	// ErrDecodingStateFailed is returned when snapshot data cannot be decoded into the state type.
	ErrDecodingStateFailed = errors.New("decoding state failed")

	// ErrNilSnapshotStore is returned when a persister is built without a snapshot store.
	ErrNilSnapshotStore = errors.New("snapshot store must not be nil")

	// ErrNonPositiveTimeout is returned for a final save timeout that is zero or negative.
	ErrNonPositiveTimeout = errors.New("timeout must be positive")

	// ErrInvalidMaxAttempts is returned when the number of final save attempts is not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the retry base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrSavingSnapshotFailed is returned when the snapshot save operation fails.
	ErrSavingSnapshotFailed = errors.New("saving snapshot failed")

	// ErrLoadingSnapshotFailed is returned when the snapshot load operation fails.
	ErrLoadingSnapshotFailed = errors.New("loading snapshot failed")

	// ErrDeletingSnapshotFailed is returned when the snapshot delete operation fails.
	ErrDeletingSnapshotFailed = errors.New("deleting snapshot failed")
)
