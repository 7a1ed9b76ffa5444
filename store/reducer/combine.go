package reducer

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/AntonStoeckl/composable-store-go/store"
)

const (
	// ReducerErrorsMetric counts failed Reduce calls.
	ReducerErrorsMetric = "reducer_errors_total"

	// ReducerHandlersMetric reports the number of registered handlers after combining.
	ReducerHandlersMetric = "reducer_handlers"

	logMsgCombined     = "reducers combined"
	logMsgReduceFailed = "reduce failed"

	logAttrSources     = "sources"
	logAttrHandlers    = "handlers"
	logAttrActionTypes = "action_types"
	logAttrActionType  = "action_type"
	logAttrDurationMS  = "duration_ms"
)

// mounted is a handler bound to the mount path of the source that registered it.
type mounted struct {
	handler Handler
	path    store.Path
	source  string
}

// Combined is the composed reducer of many sources. It is immutable once built and safe for concurrent use.
type Combined[S any] struct {
	byType   map[string][]mounted
	order    []string
	observer store.Observer
}

// Combine validates all sources against the initial state and builds the composed reducer.
//
// Handlers registered for the same action kind run in the order the sources are supplied,
// each one seeing the state produced by the previous one. Configuration problems abort
// the build and name the offending source.
func Combine[S any](initial S, sources []Source, options ...Option) (*Combined[S], error) {
	c := &Combined[S]{
		byType: make(map[string][]mounted),
	}

	for _, option := range options {
		if err := option(&c.observer); err != nil {
			return nil, err
		}
	}

	handlerCount := 0

	for _, source := range sources {
		if source == nil {
			return nil, ErrNilSource
		}

		m, ok := source.(Mounted)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrNotAReducerSource, source)
		}

		path, err := store.ParsePath(m.MountPath())
		if err != nil {
			return nil, fmt.Errorf("source %T: mount path %q: %w", source, m.MountPath(), err)
		}

		slice, err := store.Resolve(initial, path)
		if err != nil {
			return nil, fmt.Errorf("source %T: %w", source, err)
		}

		for _, h := range source.Reducers() {
			if h.err != nil {
				return nil, fmt.Errorf("source %T: %w", source, h.err)
			}

			if !h.accepts(slice) {
				return nil, fmt.Errorf(
					"source %T: %w: slice at %q is %T, handler for %s expects %s",
					source, ErrSliceTypeMismatch, path.String(), slice, h.actionType, h.sliceType,
				)
			}

			if _, known := c.byType[h.actionType]; !known {
				c.order = append(c.order, h.actionType)
			}

			c.byType[h.actionType] = append(c.byType[h.actionType], mounted{
				handler: h,
				path:    path,
				source:  fmt.Sprintf("%T", source),
			})
			handlerCount++
		}
	}

	c.observer.Info(
		context.Background(),
		logMsgCombined,
		logAttrSources, len(sources),
		logAttrHandlers, handlerCount,
		logAttrActionTypes, len(c.order),
	)
	c.observer.RecordValue(context.Background(), ReducerHandlersMetric, float64(handlerCount), nil)

	return c, nil
}

// Reduce applies the wildcard handlers and then the handlers registered for the action's kind.
// An action nobody handles returns state unchanged. On failure the input state is returned with the error.
func (c *Combined[S]) Reduce(state S, action store.Action) (S, error) {
	if action == nil {
		return state, store.ErrNilAction
	}

	start := time.Now()
	actionType := action.ActionType()
	next := state

	var err error

	next, err = c.applyAll(next, c.byType[store.AnyActionType], action)
	if err != nil {
		return state, c.failed(actionType, err, start)
	}

	if actionType != store.AnyActionType {
		next, err = c.applyAll(next, c.byType[actionType], action)
		if err != nil {
			return state, c.failed(actionType, err, start)
		}
	}

	return next, nil
}

// Reducer returns Reduce as a store.Reducer.
func (c *Combined[S]) Reducer() store.Reducer[S] {
	return c.Reduce
}

// Handles returns how many handlers are registered for the action kind.
func (c *Combined[S]) Handles(actionType string) int {
	return len(c.byType[actionType])
}

// ActionTypes returns the registered action kinds in the order they were first seen.
func (c *Combined[S]) ActionTypes() []string {
	return slices.Clone(c.order)
}

func (c *Combined[S]) applyAll(state S, handlers []mounted, action store.Action) (S, error) {
	for _, m := range handlers {
		next, err := store.Update(state, m.path, func(slice any) (any, error) {
			return m.handler.apply(slice, action)
		})
		if err != nil {
			return state, fmt.Errorf("%s at %q: %w", m.source, m.path.String(), err)
		}

		state = next
	}

	return state, nil
}

func (c *Combined[S]) failed(actionType string, err error, start time.Time) error {
	ctx := context.Background()

	c.observer.Error(
		ctx,
		logMsgReduceFailed,
		err,
		logAttrActionType, actionType,
		logAttrDurationMS, store.ToMilliseconds(time.Since(start)),
	)
	c.observer.IncrementCounter(ctx, ReducerErrorsMetric, map[string]string{store.LabelActionType: actionType})

	return err
}
