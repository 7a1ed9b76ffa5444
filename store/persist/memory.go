package persist

import (
	"context"
	"slices"
	"sync"
)

// MemorySnapshotStore is a SnapshotStore keeping snapshots in memory. It is safe for concurrent use.
type MemorySnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// NewMemorySnapshotStore creates an empty MemorySnapshotStore.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{
		snapshots: make(map[string]Snapshot),
	}
}

// SaveSnapshot stores snapshot unless a snapshot with the same or a newer version exists.
func (m *MemorySnapshotStore) SaveSnapshot(ctx context.Context, snapshot Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := snapshot.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.snapshots[snapshot.StoreName]; ok && existing.Version >= snapshot.Version {
		return nil
	}

	snapshot.Data = slices.Clone(snapshot.Data)
	m.snapshots[snapshot.StoreName] = snapshot

	return nil
}

// LoadSnapshot returns the snapshot of storeName or ErrSnapshotNotFound.
func (m *MemorySnapshotStore) LoadSnapshot(ctx context.Context, storeName string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot, ok := m.snapshots[storeName]
	if !ok {
		return Snapshot{}, ErrSnapshotNotFound
	}

	snapshot.Data = slices.Clone(snapshot.Data)

	return snapshot, nil
}

// DeleteSnapshot removes the snapshot of storeName. Deleting a missing snapshot is not an error.
func (m *MemorySnapshotStore) DeleteSnapshot(ctx context.Context, storeName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.snapshots, storeName)

	return nil
}

var _ SnapshotStore = (*MemorySnapshotStore)(nil)
