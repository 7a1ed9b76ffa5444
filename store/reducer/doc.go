// Package reducer combines many reducer sources into the single Reducer a store needs.
//
// Each source owns one slice of the state tree, declared once via MountPath, and registers
// its handlers explicitly:
//
//	type todoReducers struct{}
//
//	func (todoReducers) MountPath() string { return "Todos" }
//
//	func (todoReducers) Reducers() []reducer.Handler {
//		return []reducer.Handler{
//			reducer.On(func(list TodoList, a AddTodo) TodoList { ... }),
//			reducer.On(func(list TodoList, a RemoveTodo) TodoList { ... }),
//		}
//	}
//
// A handler receives and returns only the slice at the mount path; Combine takes care of copying
// the ancestors and sharing everything else. Mount paths are validated against the initial state
// when combining, so a path that does not exist fails early instead of on the first dispatch.
package reducer
