package reducer_test

import (
	"slices"

	"github.com/AntonStoeckl/composable-store-go/store"
	"github.com/AntonStoeckl/composable-store-go/store/reducer"
)

type rootState struct {
	Counter counterSlice
	Todos   todosSlice
	Log     []string
}

func (s rootState) Field(name string) (any, bool) {
	switch name {
	case "Counter":
		return s.Counter, true
	case "Todos":
		return s.Todos, true
	case "Log":
		return s.Log, true
	}

	return nil, false
}

func (s rootState) WithField(name string, value any) (store.Node, error) {
	var err error

	switch name {
	case "Counter":
		err = store.SetField(&s.Counter, name, value)
	case "Todos":
		err = store.SetField(&s.Todos, name, value)
	case "Log":
		err = store.SetField(&s.Log, name, value)
	default:
		err = store.UnknownField(s, name)
	}

	return s, err
}

type counterSlice struct {
	Count int
}

type todosSlice struct {
	Items  []string
	Filter string
}

func (t todosSlice) Field(name string) (any, bool) {
	switch name {
	case "Items":
		return t.Items, true
	case "Filter":
		return t.Filter, true
	}

	return nil, false
}

func (t todosSlice) WithField(name string, value any) (store.Node, error) {
	var err error

	switch name {
	case "Items":
		err = store.SetField(&t.Items, name, value)
	case "Filter":
		err = store.SetField(&t.Filter, name, value)
	default:
		err = store.UnknownField(t, name)
	}

	return t, err
}

func givenRootState() rootState {
	return rootState{
		Counter: counterSlice{Count: 1},
		Todos:   todosSlice{Items: []string{"first"}, Filter: "all"},
	}
}

type increment struct{ By int }

func (increment) ActionType() string { return "counter/increment" }

// legacyIncrement collides with increment on purpose.
type legacyIncrement struct{ Amount int }

func (legacyIncrement) ActionType() string { return "counter/increment" }

type addTodo struct{ Title string }

func (addTodo) ActionType() string { return "todos/add" }

type unhandled struct{}

func (unhandled) ActionType() string { return "nobody/cares" }

// pointerAction reads a field in ActionType, so its kind cannot be read from a nil pointer.
type pointerAction struct{ kind string }

func (a *pointerAction) ActionType() string { return a.kind }

// source is a configurable reducer source for tests.
type source struct {
	path     string
	handlers []reducer.Handler
}

func (s source) MountPath() string { return s.path }

func (s source) Reducers() []reducer.Handler { return s.handlers }

// unmountedSource forgets to declare a mount path.
type unmountedSource struct{}

func (unmountedSource) Reducers() []reducer.Handler { return nil }

func addingCounter() source {
	return source{path: "Counter", handlers: []reducer.Handler{
		reducer.On(func(c counterSlice, a increment) counterSlice { return counterSlice{Count: c.Count + a.By} }),
	}}
}

func multiplyingCounter() source {
	return source{path: "Counter", handlers: []reducer.Handler{
		reducer.On(func(c counterSlice, _ increment) counterSlice { return counterSlice{Count: c.Count * 10} }),
	}}
}

func auditLog() source {
	return source{path: "Log", handlers: []reducer.Handler{
		reducer.OnAny(func(log []string, a store.Action) []string {
			return append(slices.Clone(log), a.ActionType())
		}),
	}}
}

func todoItems() source {
	return source{path: "Todos.Items", handlers: []reducer.Handler{
		reducer.On(func(items []string, a addTodo) []string { return append(slices.Clone(items), a.Title) }),
	}}
}

// shelfState holds its only slice behind a pointer that reducers may clear.
type shelfState struct {
	Inner *innerNode
}

func (s shelfState) Field(name string) (any, bool) {
	if name == "Inner" {
		return s.Inner, true
	}

	return nil, false
}

func (s shelfState) WithField(name string, value any) (store.Node, error) {
	if name != "Inner" {
		return s, store.UnknownField(s, name)
	}

	err := store.SetField(&s.Inner, name, value)

	return s, err
}

type innerNode struct {
	N int
}

func (n *innerNode) Field(name string) (any, bool) {
	if name == "N" {
		return n.N, true
	}

	return nil, false
}

func (n *innerNode) WithField(name string, value any) (store.Node, error) {
	if name != "N" {
		return nil, store.UnknownField(n, name)
	}

	cp := *n
	if err := store.SetField(&cp.N, name, value); err != nil {
		return nil, err
	}

	return &cp, nil
}

type clearInner struct{}

func (clearInner) ActionType() string { return "shelf/clear" }

type bump struct{}

func (bump) ActionType() string { return "shelf/bump" }
