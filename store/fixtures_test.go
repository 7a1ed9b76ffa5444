package store_test

import (
	"github.com/AntonStoeckl/composable-store-go/store"
)

type appState struct {
	Counter *counterState
	Todos   *todoState
	Label   string
}

func (s appState) Field(name string) (any, bool) {
	switch name {
	case "Counter":
		return s.Counter, true
	case "Todos":
		return s.Todos, true
	case "Label":
		return s.Label, true
	}

	return nil, false
}

func (s appState) WithField(name string, value any) (store.Node, error) {
	var err error

	switch name {
	case "Counter":
		err = store.SetField(&s.Counter, name, value)
	case "Todos":
		err = store.SetField(&s.Todos, name, value)
	case "Label":
		err = store.SetField(&s.Label, name, value)
	default:
		err = store.UnknownField(s, name)
	}

	return s, err
}

type counterState struct {
	Count int
}

func (c *counterState) Field(name string) (any, bool) {
	if name == "Count" {
		return c.Count, true
	}

	return nil, false
}

func (c *counterState) WithField(name string, value any) (store.Node, error) {
	if name != "Count" {
		return nil, store.UnknownField(c, name)
	}

	cp := *c
	if err := store.SetField(&cp.Count, name, value); err != nil {
		return nil, err
	}

	return &cp, nil
}

type todoState struct {
	Items []string
	Meta  *metaState
}

func (t *todoState) Field(name string) (any, bool) {
	switch name {
	case "Items":
		return t.Items, true
	case "Meta":
		return t.Meta, true
	}

	return nil, false
}

func (t *todoState) WithField(name string, value any) (store.Node, error) {
	cp := *t

	var err error

	switch name {
	case "Items":
		err = store.SetField(&cp.Items, name, value)
	case "Meta":
		err = store.SetField(&cp.Meta, name, value)
	default:
		err = store.UnknownField(t, name)
	}

	if err != nil {
		return nil, err
	}

	return &cp, nil
}

type metaState struct {
	Owner string
}

func (m *metaState) Field(name string) (any, bool) {
	if name == "Owner" {
		return m.Owner, true
	}

	return nil, false
}

func (m *metaState) WithField(name string, value any) (store.Node, error) {
	if name != "Owner" {
		return nil, store.UnknownField(m, name)
	}

	cp := *m
	if err := store.SetField(&cp.Owner, name, value); err != nil {
		return nil, err
	}

	return &cp, nil
}

func givenAppState() appState {
	return appState{
		Counter: &counterState{Count: 1},
		Todos: &todoState{
			Items: []string{"write tests"},
			Meta:  &metaState{Owner: "ada"},
		},
		Label: "initial",
	}
}

type incremented struct {
	By int
}

func (incremented) ActionType() string { return "counter/incremented" }

type labelChanged struct {
	Label string
}

func (labelChanged) ActionType() string { return "label/changed" }

// reduceApp is a hand-written reducer for store tests that do not need composed reducers.
func reduceApp(state appState, action store.Action) (appState, error) {
	switch a := action.(type) {
	case incremented:
		return store.Assign(state, store.MustParsePath("Counter.Count"), state.Counter.Count+a.By)
	case labelChanged:
		return store.Assign(state, store.MustParsePath("Label"), a.Label)
	}

	return state, nil
}
