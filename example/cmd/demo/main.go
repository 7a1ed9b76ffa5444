package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AntonStoeckl/composable-store-go/example/todo"
	"github.com/AntonStoeckl/composable-store-go/store"
	"github.com/AntonStoeckl/composable-store-go/store/effects"
	"github.com/AntonStoeckl/composable-store-go/store/persist"
)

var errPersisterTimeout = errors.New("final snapshot was not written in time")

func main() {
	if err := run(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "demo failed:", err)
		os.Exit(1)
	}
}

func run(out io.Writer) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, out)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel := newTelemetry(cfg.ObservabilityEnabled, logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tel.shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err.Error())
		}
	}()

	snapshots, err := openSnapshotStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer snapshots.close()

	initial, version, err := persist.Hydrate(ctx, snapshots, cfg.StoreName, todo.State{})
	if err != nil {
		return err
	}
	logger.Info("store hydrated", "store_name", cfg.StoreName, "version", version, "todos", len(initial.List.Items))

	persister, err := persist.NewPersister[todo.State](
		snapshots,
		cfg.StoreName,
		append(tel.persistOptions(), persist.WithStartVersion(version), persist.WithFinalSaveTimeout(cfg.FinalSaveTimeout))...,
	)
	if err != nil {
		return err
	}

	app, err := todo.New(initial, todo.Config{
		Repository:     seedRepository(),
		StoreOptions:   append(tel.storeOptions(cfg.StoreName), store.WithContext[todo.State](ctx)),
		ReducerOptions: tel.reducerOptions(),
		EffectOptions: append(tel.effectOptions(), effects.WithErrorHandler(func(ctx context.Context, action store.Action, err error) {
			logger.WarnContext(ctx, "effect failed", "action_type", action.ActionType(), "error", err.Error())
		})),
		Middlewares: []store.Middleware[todo.State]{persister.Middleware},
	})
	if err != nil {
		return err
	}

	unsubscribe := store.Select(app.Store, todo.OpenCount).Subscribe(func(open int) {
		logger.Info("open todos changed", "open", open)
	})

	sessionErr := runSession(ctx, app)

	unsubscribe()
	closeErr := app.Close()

	select {
	case <-persister.Done():
	case <-time.After(cfg.FinalSaveTimeout + time.Second):
		return errors.Join(sessionErr, closeErr, errPersisterTimeout)
	}

	state := app.Store.GetState()
	logger.Info("demo finished",
		"snapshot_version", persister.Version(),
		"todos", len(state.List.Items),
		"dispatched", state.Stats.Dispatched,
		"completed", state.Stats.Completed)

	return errors.Join(sessionErr, closeErr)
}

func newLogger(cfg Config, out io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == logFormatJSON {
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	}

	return slog.New(slog.NewTextHandler(out, opts)), nil
}

func seedRepository() *todo.MemoryRepository {
	return todo.NewMemoryRepository(
		todo.Item{ID: "seed-1", Title: "read the store docs"},
		todo.Item{ID: "seed-2", Title: "mount a reducer"},
	)
}

// runSession drives the store through a short scripted session.
func runSession(ctx context.Context, app *todo.App) error {
	if len(app.Store.GetState().List.Items) == 0 {
		if _, err := app.Store.Dispatch(todo.LoadRequested{}); err != nil {
			return err
		}
		app.Effects.Wait()
	}

	added := todo.NewAdded(fmt.Sprintf("demo run at %s", time.Now().Format(time.RFC3339)))
	if _, err := app.Store.Dispatch(added); err != nil {
		return err
	}

	for _, item := range app.Store.GetState().List.Items {
		if err := ctx.Err(); err != nil {
			return err
		}

		if item.Done {
			continue
		}

		if _, err := app.Store.Dispatch(todo.Toggled{ID: item.ID}); err != nil {
			return err
		}
	}

	app.Effects.Wait()

	_, err := app.Store.Dispatch(todo.CompletedCleared{})

	return err
}
