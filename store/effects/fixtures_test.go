package effects_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/composable-store-go/store"
	"github.com/AntonStoeckl/composable-store-go/store/effects"
)

type state struct {
	Requests int
	Loaded   []int
}

type load struct{}

func (load) ActionType() string { return "items/load" }

type loaded struct{ N int }

func (loaded) ActionType() string { return "items/loaded" }

// staleLoaded collides with loaded on purpose.
type staleLoaded struct{ N string }

func (staleLoaded) ActionType() string { return "items/loaded" }

type rejected struct{}

func (rejected) ActionType() string { return "items/rejected" }

type pointerAction struct{ kind string }

func (a *pointerAction) ActionType() string { return a.kind }

var errRejected = errors.New("rejected by reducer")

func reduce(s state, action store.Action) (state, error) {
	switch a := action.(type) {
	case load:
		s.Requests++
	case loaded:
		s.Loaded = append(slices.Clone(s.Loaded), a.N)
	case rejected:
		return s, errRejected
	}

	return s, nil
}

type effectSource struct {
	handlers []effects.Handler[state]
}

func (s effectSource) Effects() []effects.Handler[state] { return s.handlers }

func givenSource(handlers ...effects.Handler[state]) effectSource {
	return effectSource{handlers: handlers}
}

func givenStoreWithEffects(
	t *testing.T,
	sources []effects.Source[state],
	options ...effects.Option,
) (*store.StateStore[state], *effects.Combined[state]) {
	t.Helper()

	combined, err := effects.Combine(sources, options...)
	require.NoError(t, err)

	s, err := store.New(reduce, state{}, store.WithMiddleware(combined.Middleware))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		combined.Wait()
	})

	return s, combined
}
