package reducer

import (
	"fmt"

	"github.com/AntonStoeckl/composable-store-go/store"
)

// Source provides the reducer handlers of one slice of the state tree.
// A Source must also implement Mounted to be combined.
type Source interface {
	Reducers() []Handler
}

// Mounted declares where in the state tree a Source's slice lives, e.g. "Todos" or "Todos.Items".
// The empty string mounts the source at the root.
type Mounted interface {
	MountPath() string
}

// Handler is a reducer for one action kind, operating on the state slice at its source's mount path.
// Build handlers with On or OnAny.
type Handler struct {
	actionType string
	sliceType  string
	accepts    func(slice any) bool
	apply      func(slice any, action store.Action) (any, error)
	err        error
}

// On registers fn for the action kind of A. Wildcard handlers are built with OnAny instead.
// fn receives the slice at the mount path and the action, and returns the new slice.
func On[T any, A store.Action](fn func(slice T, action A) T) Handler {
	var zeroSlice T
	var zeroAction A

	h := Handler{
		actionType: store.TypeOf[A](),
		sliceType:  fmt.Sprintf("%T", zeroSlice),
		accepts:    accepts[T],
	}

	switch {
	case fn == nil:
		h.err = fmt.Errorf("%w: nil function for %T", ErrInvalidHandler, zeroAction)
	case h.actionType == "":
		h.err = fmt.Errorf("%w: cannot read the action kind of %T", ErrInvalidHandler, zeroAction)
	case h.actionType == store.AnyActionType:
		h.err = fmt.Errorf("%w: %T matches every action, use OnAny", ErrInvalidHandler, zeroAction)
	}

	h.apply = func(slice any, action store.Action) (any, error) {
		typedAction, ok := action.(A)
		if !ok {
			return nil, fmt.Errorf("%w: expected %T, got %T", ErrActionTypeMismatch, zeroAction, action)
		}

		typedSlice, err := sliceOf[T](slice)
		if err != nil {
			return nil, err
		}

		return fn(typedSlice, typedAction), nil
	}

	return h
}

// OnAny registers fn for every dispatched action (the store.AnyActionType kind).
// Wildcard handlers run before the handlers of the concrete kind.
func OnAny[T any](fn func(slice T, action store.Action) T) Handler {
	var zeroSlice T

	h := Handler{
		actionType: store.AnyActionType,
		sliceType:  fmt.Sprintf("%T", zeroSlice),
		accepts:    accepts[T],
	}

	if fn == nil {
		h.err = fmt.Errorf("%w: nil function for %s", ErrInvalidHandler, store.AnyActionType)
	}

	h.apply = func(slice any, action store.Action) (any, error) {
		typedSlice, err := sliceOf[T](slice)
		if err != nil {
			return nil, err
		}

		return fn(typedSlice, action), nil
	}

	return h
}

// ActionType returns the action kind the handler is registered for.
func (h Handler) ActionType() string {
	return h.actionType
}

func accepts[T any](slice any) bool {
	_, err := sliceOf[T](slice)
	return err == nil
}

func sliceOf[T any](slice any) (T, error) {
	if slice == nil {
		var zero T
		return zero, nil
	}

	typed, ok := slice.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: expected %T, got %T", ErrSliceTypeMismatch, zero, slice)
	}

	return typed, nil
}
