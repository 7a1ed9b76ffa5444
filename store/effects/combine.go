package effects

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/composable-store-go/store"
)

const (
	// RunsMetric counts finished effect runs by action type and status.
	RunsMetric = "effects_runs_total"

	// RunDurationMetric tracks how long an effect run took until all its streams were drained.
	RunDurationMetric = "effects_run_duration_seconds"

	// ErrorsMetric counts errors yielded by effect streams or returned by re-dispatching.
	ErrorsMetric = "effects_errors_total"

	// RedispatchedMetric counts actions produced by effects and dispatched back into the store.
	RedispatchedMetric = "effects_redispatched_total"

	spanNameRun = "effects.run"

	labelRunID = "run_id"

	logMsgCombined    = "effects combined"
	logMsgRunStarted  = "effect run started"
	logMsgRunFinished = "effect run finished"
	logMsgRunCanceled = "effect run canceled"
	logMsgEffectError = "effect failed"

	logAttrSources      = "sources"
	logAttrHandlers     = "handlers"
	logAttrActionType   = "action_type"
	logAttrRunID        = "run_id"
	logAttrDispatched   = "dispatched"
	logAttrErrors       = "errors"
	logAttrDurationMS   = "duration_ms"
	attrDispatchedCount = "dispatched_count"
)

// Combined is the composed effect middleware of many sources.
// The handler registry is immutable once built; only the set of in-flight runs changes.
type Combined[S any] struct {
	byType       map[string][]Handler[S]
	order        []string
	observer     store.Observer
	errorHandler ErrorHandler
	runs         sync.WaitGroup
}

// Combine builds the effect middleware from sources.
// Handlers for the same action kind are all started for every matching action, in supply order.
func Combine[S any](sources []Source[S], options ...Option) (*Combined[S], error) {
	cfg := settings{}
	for _, option := range options {
		if err := option(&cfg); err != nil {
			return nil, err
		}
	}

	c := &Combined[S]{
		byType:       make(map[string][]Handler[S]),
		observer:     cfg.observer,
		errorHandler: cfg.errorHandler,
	}

	handlerCount := 0

	for _, source := range sources {
		if source == nil {
			return nil, ErrNilSource
		}

		for _, h := range source.Effects() {
			if h.err != nil {
				return nil, fmt.Errorf("source %T: %w", source, h.err)
			}

			if _, known := c.byType[h.actionType]; !known {
				c.order = append(c.order, h.actionType)
			}

			c.byType[h.actionType] = append(c.byType[h.actionType], h)
			handlerCount++
		}
	}

	c.observer.Info(context.Background(), logMsgCombined, logAttrSources, len(sources), logAttrHandlers, handlerCount)

	return c, nil
}

// Handles returns how many handlers are registered for the action kind.
func (c *Combined[S]) Handles(actionType string) int {
	return len(c.byType[actionType])
}

// ActionTypes returns the registered action kinds in the order they were first seen.
func (c *Combined[S]) ActionTypes() []string {
	return slices.Clone(c.order)
}

// Middleware is a store.Middleware. The action is passed to next first, so reducers have handled it
// before any effect starts. Matching handlers then run in a background goroutine bound to st.Context().
func (c *Combined[S]) Middleware(st store.MiddlewareStore[S]) func(next store.Dispatcher) store.Dispatcher {
	return func(next store.Dispatcher) store.Dispatcher {
		return func(action store.Action) (store.Action, error) {
			dispatched, err := next(action)
			if err != nil || dispatched == nil {
				return dispatched, err
			}

			handlers := c.byType[dispatched.ActionType()]
			if len(handlers) == 0 {
				return dispatched, nil
			}

			ctx := st.Context()
			if ctx.Err() != nil {
				return dispatched, nil
			}

			c.runs.Add(1)
			go c.run(ctx, st, dispatched, handlers)

			return dispatched, nil
		}
	}
}

// Wait blocks until all effect runs in flight have finished, including runs started by re-dispatched actions.
func (c *Combined[S]) Wait() {
	c.runs.Wait()
}

func (c *Combined[S]) run(ctx context.Context, st store.MiddlewareStore[S], action store.Action, handlers []Handler[S]) {
	defer c.runs.Done()

	runID := uuid.NewString()
	actionType := action.ActionType()
	start := time.Now()

	ctx, span := c.observer.StartSpan(ctx, spanNameRun, map[string]string{
		store.LabelActionType: actionType,
		labelRunID:            runID,
	})

	c.observer.Debug(ctx, logMsgRunStarted,
		logAttrRunID, runID,
		logAttrActionType, actionType,
		logAttrHandlers, len(handlers))

	streams := make([]Stream, len(handlers))
	for i, h := range handlers {
		streams[i] = h.stream(ctx, action, st)
	}

	dispatched, failures := 0, 0
	canceled := false

	for next, err := range Merge(ctx, streams...) {
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				canceled = true
				break
			}

			failures++
			c.fail(ctx, action, runID, err)

			continue
		}

		if next == nil {
			continue
		}

		if ctx.Err() != nil {
			canceled = true
			break
		}

		if _, err := st.Dispatch(next); err != nil {
			if errors.Is(err, store.ErrStoreClosed) {
				canceled = true
				break
			}

			failures++
			c.fail(ctx, action, runID, fmt.Errorf("re-dispatching %s: %w", next.ActionType(), err))

			continue
		}

		dispatched++
		c.observer.IncrementCounter(ctx, RedispatchedMetric, map[string]string{store.LabelActionType: next.ActionType()})
	}

	duration := time.Since(start)
	status := store.StatusSuccess
	msg := logMsgRunFinished

	switch {
	case canceled:
		status = store.StatusCanceled
		msg = logMsgRunCanceled
	case failures > 0:
		status = store.StatusError
	}

	labels := map[string]string{store.LabelActionType: actionType, store.LabelStatus: status}

	c.observer.Debug(ctx, msg,
		logAttrRunID, runID,
		logAttrActionType, actionType,
		logAttrDispatched, dispatched,
		logAttrErrors, failures,
		logAttrDurationMS, store.ToMilliseconds(duration))
	c.observer.IncrementCounter(ctx, RunsMetric, labels)
	c.observer.RecordDuration(ctx, RunDurationMetric, duration, labels)
	c.observer.FinishSpan(span, status, map[string]string{attrDispatchedCount: strconv.Itoa(dispatched)})
}

func (c *Combined[S]) fail(ctx context.Context, action store.Action, runID string, err error) {
	c.observer.IncrementCounter(ctx, ErrorsMetric, map[string]string{store.LabelActionType: action.ActionType()})

	if c.errorHandler != nil {
		c.errorHandler(ctx, action, err)
		return
	}

	c.observer.Error(ctx, logMsgEffectError, err, logAttrRunID, runID, logAttrActionType, action.ActionType())
}
