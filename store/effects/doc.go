// Package effects runs side effects for dispatched actions and feeds the actions they produce back into the store.
//
// An effect handler is registered for one action kind and returns a Stream. The Combined middleware
// lets the reducers handle an action first, then starts every handler registered for its kind
// concurrently, merges their streams and re-dispatches each yielded action through the full store pipeline.
//
//	type todoEffects struct{ api TodoAPI }
//
//	func (e todoEffects) Effects() []effects.Handler[AppState] {
//		return []effects.Handler[AppState]{
//			effects.On[AppState](func(ctx context.Context, a LoadTodos) effects.Stream {
//				todos, err := e.api.Fetch(ctx)
//				if err != nil {
//					return effects.Fail(err)
//				}
//				return effects.Just(TodosLoaded{Todos: todos})
//			}),
//		}
//	}
//
// Effect runs are bound to the store's lifetime context: closing the store cancels them.
package effects
