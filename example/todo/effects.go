package todo

import (
	"context"
	"time"

	"github.com/AntonStoeckl/composable-store-go/store"
	"github.com/AntonStoeckl/composable-store-go/store/effects"
)

// Loader fetches todos from a Repository when LoadRequested is dispatched.
type Loader struct {
	repo  Repository
	clock func() time.Time
}

// NewLoader creates a Loader. A nil clock uses time.Now.
func NewLoader(repo Repository, clock func() time.Time) Loader {
	if clock == nil {
		clock = time.Now
	}

	return Loader{repo: repo, clock: clock}
}

// Effects turns LoadRequested into Loaded, or into LoadFailed when the repository fails.
func (l Loader) Effects() []effects.Handler[State] {
	return []effects.Handler[State]{
		effects.On[State](func(ctx context.Context, _ LoadRequested) effects.Stream {
			return func(yield func(store.Action, error) bool) {
				items, err := l.repo.Fetch(ctx)
				if err != nil {
					yield(LoadFailed{Reason: err.Error()}, nil)
					return
				}

				yield(Loaded{Items: items, At: l.clock()}, nil)
			}
		}),
	}
}

// CompletionWatcher emits AllCompleted when a toggle completed the last open todo.
type CompletionWatcher struct{}

// Effects reacts to Toggled and reads the already reduced state through the store.
func (CompletionWatcher) Effects() []effects.Handler[State] {
	return []effects.Handler[State]{
		effects.OnWithStore(func(_ context.Context, a Toggled, st store.Store[State]) effects.Stream {
			items := st.GetState().List.Items

			for _, item := range items {
				if item.ID == a.ID && item.Done && AllDone(items) {
					return effects.Just(AllCompleted{})
				}
			}

			return effects.Empty()
		}),
	}
}

// EffectSources returns all effect sources of the application.
func EffectSources(repo Repository, clock func() time.Time) []effects.Source[State] {
	return []effects.Source[State]{
		NewLoader(repo, clock),
		CompletionWatcher{},
	}
}
