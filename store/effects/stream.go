package effects

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"

	"github.com/AntonStoeckl/composable-store-go/store"
)

// Stream is an asynchronous sequence of actions. An item carries either an action or an error.
type Stream = iter.Seq2[store.Action, error]

// Just yields the given actions in order.
func Just(actions ...store.Action) Stream {
	return func(yield func(store.Action, error) bool) {
		for _, action := range actions {
			if !yield(action, nil) {
				return
			}
		}
	}
}

// Empty yields nothing.
func Empty() Stream {
	return func(func(store.Action, error) bool) {}
}

// Fail yields err as its only item.
func Fail(err error) Stream {
	return func(yield func(store.Action, error) bool) {
		yield(nil, err)
	}
}

// FromChannel yields the actions received from ch until ch is closed or ctx is done.
func FromChannel(ctx context.Context, ch <-chan store.Action) Stream {
	return func(yield func(store.Action, error) bool) {
		for {
			select {
			case <-ctx.Done():
				return
			case action, ok := <-ch:
				if !ok || !yield(action, nil) {
					return
				}
			}
		}
	}
}

type item struct {
	action store.Action
	err    error
}

// Merge consumes all streams concurrently and yields their items as they arrive.
// Items of one stream keep their order, items of different streams interleave.
//
// When ctx is done the producers stop and ctx's error is yielded last.
// When the consumer stops early, the producers stop at their next item.
func Merge(ctx context.Context, streams ...Stream) Stream {
	return func(yield func(store.Action, error) bool) {
		if len(streams) == 0 {
			return
		}

		items := make(chan item)
		done := make(chan struct{})
		waitErr := make(chan error, 1)

		var g errgroup.Group

		for _, stream := range streams {
			g.Go(func() error {
				if stream == nil {
					return nil
				}

				for action, err := range stream {
					if ctx.Err() != nil {
						return ctx.Err()
					}

					select {
					case items <- item{action: action, err: err}:
					case <-done:
						return nil
					case <-ctx.Done():
						return ctx.Err()
					}
				}

				return nil
			})
		}

		go func() {
			waitErr <- g.Wait()
			close(items)
		}()

		defer func() {
			close(done)

			// unblock producers that are about to send
			go func() {
				for range items {
				}
			}()
		}()

		for it := range items {
			if !yield(it.action, it.err) {
				return
			}
		}

		if err := <-waitErr; err != nil {
			yield(nil, err)
		}
	}
}
