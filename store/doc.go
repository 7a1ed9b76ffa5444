// Package store provides the core abstractions for composing a unidirectional state container
// out of many small, independently authored reducer and effect handler sources.
//
// A store holds a single immutable state tree. The tree only changes when a dispatched Action
// runs through the store's Reducer. Reducer and effect composition live in the subpackages
// reducer and effects; this package defines what they share:
//   - Action and its routing kind (ActionType), including the AnyActionType wildcard
//   - Path and Node, the contract for walking and copying nested state
//   - Update, Assign and AssignMany, which replace nodes without mutating the input tree
//   - Store, MiddlewareStore, Dispatcher, Reducer and Middleware, the store contracts
//   - StateStore, a minimal store implementation, and View, a read-only projection of a store
//   - Logger, ContextualLogger, MetricsCollector and TracingCollector for observability
//
// Common usage pattern:
//
//	reducers, err := reducer.Combine(initialState, []reducer.Source{todoReducers{}, filterReducers{}})
//	if err != nil {
//		// a source lacks a mount path or mounts onto a field that does not exist
//	}
//
//	sideEffects, err := effects.Combine([]effects.Source[AppState]{syncEffects{api: api}})
//	if err != nil {
//		// handle error
//	}
//
//	st, err := store.New(
//		reducers.Reducer(),
//		initialState,
//		store.WithMiddleware(sideEffects.Middleware),
//	)
//	defer st.Close()
//
//	_, err = st.Dispatch(AddTodo{Title: "write docs"})
//
//	filter := store.Select(st, func(s AppState) string { return s.Filter.Mode })
//	unsubscribe := filter.Subscribe(func(mode string) { fmt.Println("filter:", mode) })
//	defer unsubscribe()
package store
