// Package persist saves store state as JSON snapshots and restores it at startup.
//
// A Persister is a store middleware. After every successful dispatch it hands the new state to a single
// background writer which saves it as a versioned Snapshot. States dispatched while a save is running are
// coalesced, only the latest one is written next. Closing the store triggers one final save, retried with backoff when it fails.
//
//	initial, version, err := persist.Hydrate(ctx, snapshots, "todos", todo.State{})
//	persister, err := persist.NewPersister[todo.State](snapshots, "todos", persist.WithStartVersion(version))
//	st, err := store.New(reducers.Reducer(), initial, store.WithMiddleware(persister.Middleware))
//	...
//	_ = st.Close()
//	<-persister.Done()
//
// Snapshot stores: MemorySnapshotStore here, PostgreSQL in the postgresengine subpackage.
package persist
