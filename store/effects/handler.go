package effects

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/composable-store-go/store"
)

// Source provides the effect handlers of one feature.
type Source[S any] interface {
	Effects() []Handler[S]
}

// Handler is an effect for one action kind. Build handlers with On or OnWithStore.
type Handler[S any] struct {
	actionType string
	run        func(ctx context.Context, action store.Action, st store.Store[S]) Stream
	err        error
}

// On registers fn for the action kind of A.
func On[S any, A store.Action](fn func(ctx context.Context, action A) Stream) Handler[S] {
	h := newHandler[S, A](fn == nil)
	if h.err != nil {
		return h
	}

	h.run = func(ctx context.Context, action store.Action, _ store.Store[S]) Stream {
		typed, err := actionAs[A](action)
		if err != nil {
			return Fail(err)
		}

		return fn(ctx, typed)
	}

	return h
}

// OnWithStore registers fn for the action kind of A. fn may read the state and dispatch through st.
func OnWithStore[S any, A store.Action](fn func(ctx context.Context, action A, st store.Store[S]) Stream) Handler[S] {
	h := newHandler[S, A](fn == nil)
	if h.err != nil {
		return h
	}

	h.run = func(ctx context.Context, action store.Action, st store.Store[S]) Stream {
		typed, err := actionAs[A](action)
		if err != nil {
			return Fail(err)
		}

		return fn(ctx, typed, st)
	}

	return h
}

// ActionType returns the action kind the handler is registered for.
func (h Handler[S]) ActionType() string {
	return h.actionType
}

// stream invokes the handler lazily, when the returned stream is consumed.
func (h Handler[S]) stream(ctx context.Context, action store.Action, st store.Store[S]) Stream {
	return func(yield func(store.Action, error) bool) {
		s := h.run(ctx, action, st)
		if s == nil {
			return
		}

		s(yield)
	}
}

func newHandler[S any, A store.Action](nilFn bool) Handler[S] {
	var zero A

	h := Handler[S]{actionType: store.TypeOf[A]()}

	switch {
	case nilFn:
		h.err = fmt.Errorf("%w: nil function for %T", ErrInvalidHandler, zero)
	case h.actionType == "":
		h.err = fmt.Errorf("%w: cannot read the action kind of %T", ErrInvalidHandler, zero)
	case h.actionType == store.AnyActionType:
		h.err = fmt.Errorf("%w: effects cannot be registered for the wildcard kind", ErrInvalidHandler)
	}

	return h
}

func actionAs[A store.Action](action store.Action) (A, error) {
	typed, ok := action.(A)
	if !ok {
		var zero A
		return zero, fmt.Errorf("%w: expected %T, got %T", ErrActionTypeMismatch, zero, action)
	}

	return typed, nil
}
