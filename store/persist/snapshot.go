package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Snapshot is the persisted state of one named store.
type Snapshot struct {
	StoreName string          // Name of the store the state belongs to
	Version   uint64          // Increases with every save of the same store
	Data      json.RawMessage // State encoded as JSON
	SavedAt   time.Time       // When the snapshot was built
}

// SnapshotLoader loads the latest snapshot of a store.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, storeName string) (Snapshot, error)
}

// SnapshotStore keeps one snapshot per store name.
//
// SaveSnapshot must only replace a stored snapshot with a newer Version; older or equal versions are ignored.
// LoadSnapshot returns ErrSnapshotNotFound if nothing was saved for the store name.
type SnapshotStore interface {
	SnapshotLoader
	SaveSnapshot(ctx context.Context, snapshot Snapshot) error
	DeleteSnapshot(ctx context.Context, storeName string) error
}

// Validate ensures the snapshot has valid data for storage operations.
func (s Snapshot) Validate() error {
	if s.StoreName == "" {
		return ErrEmptyStoreName
	}

	if !jsoniter.ConfigFastest.Valid(s.Data) {
		return ErrInvalidSnapshotJSON
	}

	return nil
}

// BuildSnapshot encodes state and creates a validated Snapshot.
func BuildSnapshot[S any](storeName string, version uint64, state S) (Snapshot, error) {
	data, err := jsoniter.ConfigFastest.Marshal(state)
	if err != nil {
		return Snapshot{}, errors.Join(ErrEncodingStateFailed, err)
	}

	snapshot := Snapshot{
		StoreName: storeName,
		Version:   version,
		Data:      data,
		SavedAt:   time.Now(),
	}

	if err := snapshot.Validate(); err != nil {
		return Snapshot{}, err
	}

	return snapshot, nil
}

// DecodeState decodes the snapshot data into a fresh value of S.
func DecodeState[S any](snapshot Snapshot) (S, error) {
	var state S

	if err := jsoniter.ConfigFastest.Unmarshal(snapshot.Data, &state); err != nil {
		var zero S
		return zero, errors.Join(ErrDecodingStateFailed, fmt.Errorf("store %q version %d: %w", snapshot.StoreName, snapshot.Version, err))
	}

	return state, nil
}

// Hydrate loads the latest snapshot of storeName and decodes it.
// Without a snapshot it returns fallback and version 0. The returned version is meant for WithStartVersion.
func Hydrate[S any](ctx context.Context, loader SnapshotLoader, storeName string, fallback S) (S, uint64, error) {
	snapshot, err := loader.LoadSnapshot(ctx, storeName)
	if errors.Is(err, ErrSnapshotNotFound) {
		return fallback, 0, nil
	}

	if err != nil {
		return fallback, 0, err
	}

	state, err := DecodeState[S](snapshot)
	if err != nil {
		return fallback, 0, err
	}

	return state, snapshot.Version, nil
}
