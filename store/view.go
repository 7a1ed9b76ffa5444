package store

import (
	"reflect"
	"sync"
)

// View is a read-only projection of a parent store.
// It forwards dispatches to the parent and only notifies when the projected value changes.
type View[S, T any] struct {
	parent   Store[S]
	selector func(S) T
	equal    func(a, b T) bool
}

// Select projects parent through selector, detecting changes with ==.
// T must not be an interface type holding incomparable dynamic values.
func Select[S any, T comparable](parent Store[S], selector func(S) T) *View[S, T] {
	return SelectFunc(parent, selector, func(a, b T) bool { return a == b })
}

// SelectFunc projects parent through selector, detecting changes with equal.
// Before equal is consulted, nil projections are handled: two nil values are equal and
// a nil value never equals a non-nil one.
func SelectFunc[S, T any](parent Store[S], selector func(S) T, equal func(a, b T) bool) *View[S, T] {
	return &View[S, T]{
		parent:   parent,
		selector: selector,
		equal:    equal,
	}
}

// Dispatch forwards action to the parent store.
func (v *View[S, T]) Dispatch(action Action) (Action, error) {
	return v.parent.Dispatch(action)
}

// GetState returns the projection of the parent's current state.
func (v *View[S, T]) GetState() T {
	return v.selector(v.parent.GetState())
}

// Subscribe registers observer for changes of the projected value.
// The observer receives the current projection immediately, afterwards only values that differ
// from the last one it received.
func (v *View[S, T]) Subscribe(observer func(state T)) Unsubscribe {
	var (
		mu      sync.Mutex
		last    T
		emitted bool
	)

	return v.parent.Subscribe(func(state S) {
		projected := v.selector(state)

		mu.Lock()
		if emitted && v.same(last, projected) {
			mu.Unlock()
			return
		}
		last, emitted = projected, true
		mu.Unlock()

		observer(projected)
	})
}

func (v *View[S, T]) same(a, b T) bool {
	aNil, bNil := isNil(a), isNil(b)

	switch {
	case aNil && bNil:
		return true
	case aNil || bNil:
		return false
	default:
		return v.equal(a, b)
	}
}

// isNil reports whether v is nil or a nil pointer, map, slice, channel or func.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

var _ Store[int] = (*View[string, int])(nil)
