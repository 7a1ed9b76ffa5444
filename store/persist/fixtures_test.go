package persist_test

import (
	"context"
	"errors"
	"sync"

	"github.com/AntonStoeckl/composable-store-go/store"
	"github.com/AntonStoeckl/composable-store-go/store/persist"
)

type counter struct {
	Count int      `json:"count"`
	Tags  []string `json:"tags,omitempty"`
}

type incremented struct{}

func (incremented) ActionType() string { return "counter/incremented" }

type tagged struct{ Tag string }

func (tagged) ActionType() string { return "counter/tagged" }

type refused struct{}

func (refused) ActionType() string { return "counter/refused" }

var errRefused = errors.New("refused")

func reduce(state counter, action store.Action) (counter, error) {
	switch a := action.(type) {
	case incremented:
		state.Count++
	case tagged:
		state.Tags = append(append([]string(nil), state.Tags...), a.Tag)
	case refused:
		return state, errRefused
	}

	return state, nil
}

// blockingSnapshotStore announces every save and blocks it until released.
type blockingSnapshotStore struct {
	*persist.MemorySnapshotStore
	started chan persist.Snapshot
	release chan struct{}
}

func newBlockingSnapshotStore() *blockingSnapshotStore {
	return &blockingSnapshotStore{
		MemorySnapshotStore: persist.NewMemorySnapshotStore(),
		started:             make(chan persist.Snapshot, 10),
		release:             make(chan struct{}),
	}
}

func (b *blockingSnapshotStore) SaveSnapshot(ctx context.Context, snapshot persist.Snapshot) error {
	b.started <- snapshot
	<-b.release

	return b.MemorySnapshotStore.SaveSnapshot(ctx, snapshot)
}

// failingSnapshotStore fails the first failures saves.
type failingSnapshotStore struct {
	*persist.MemorySnapshotStore
	mu       sync.Mutex
	failures int
}

var errDiskFull = errors.New("disk full")

func (f *failingSnapshotStore) SaveSnapshot(ctx context.Context, snapshot persist.Snapshot) error {
	f.mu.Lock()
	if f.failures > 0 {
		f.failures--
		f.mu.Unlock()

		return errDiskFull
	}
	f.mu.Unlock()

	return f.MemorySnapshotStore.SaveSnapshot(ctx, snapshot)
}

type unencodable struct{}

func (unencodable) MarshalJSON() ([]byte, error) { return nil, errors.New("not encodable") }

type failingLoader struct{ err error }

func (f failingLoader) LoadSnapshot(context.Context, string) (persist.Snapshot, error) {
	return persist.Snapshot{}, f.err
}

// scriptedStore is a store.MiddlewareStore whose state the test sets directly.
type scriptedStore struct {
	ctx   context.Context
	mu    sync.Mutex
	state counter
}

func (s *scriptedStore) set(state counter) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *scriptedStore) GetState() counter {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *scriptedStore) Dispatch(action store.Action) (store.Action, error) { return action, nil }

func (s *scriptedStore) Subscribe(func(state counter)) store.Unsubscribe { return func() {} }

func (s *scriptedStore) Context() context.Context { return s.ctx }
