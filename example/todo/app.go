package todo

import (
	"errors"
	"time"

	"github.com/AntonStoeckl/composable-store-go/store"
	"github.com/AntonStoeckl/composable-store-go/store/effects"
	"github.com/AntonStoeckl/composable-store-go/store/reducer"
)

// ErrNilRepository is returned by New without a Repository.
var ErrNilRepository = errors.New("todo repository must not be nil")

// Config collects what New needs besides the initial state.
type Config struct {
	Repository     Repository
	Clock          func() time.Time
	StoreOptions   []store.Option[State]
	ReducerOptions []reducer.Option
	EffectOptions  []effects.Option
	// Middlewares run after the effects middleware, e.g. a persist.Persister.
	Middlewares []store.Middleware[State]
}

// App is a todo store together with its effects.
type App struct {
	Store   *store.StateStore[State]
	Reducer *reducer.Combined[State]
	Effects *effects.Combined[State]
}

// New combines all reducer and effect sources and creates the store holding initial.
func New(initial State, cfg Config) (*App, error) {
	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}

	combined, err := reducer.Combine(initial, ReducerSources(), cfg.ReducerOptions...)
	if err != nil {
		return nil, err
	}

	fx, err := effects.Combine(EffectSources(cfg.Repository, cfg.Clock), cfg.EffectOptions...)
	if err != nil {
		return nil, err
	}

	middlewares := append([]store.Middleware[State]{fx.Middleware}, cfg.Middlewares...)
	options := append(
		[]store.Option[State]{store.WithMiddleware(middlewares...)},
		cfg.StoreOptions...,
	)

	s, err := store.New(combined.Reducer(), initial, options...)
	if err != nil {
		return nil, err
	}

	return &App{Store: s, Reducer: combined, Effects: fx}, nil
}

// Close closes the store and waits for running effects to finish.
func (a *App) Close() error {
	err := a.Store.Close()
	a.Effects.Wait()

	return err
}
