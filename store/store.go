package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	defaultStoreName = "store"

	// DispatchDurationMetric tracks how long reducing and notifying took per dispatch.
	DispatchDurationMetric = "store_dispatch_duration_seconds"

	// DispatchCallsMetric counts dispatches that reached the reducer.
	DispatchCallsMetric = "store_dispatch_calls_total"

	// DispatchErrorsMetric counts dispatches whose reducer failed.
	DispatchErrorsMetric = "store_dispatch_errors_total"

	// SubscribersMetric reports the current number of subscribers.
	SubscribersMetric = "store_subscribers"

	spanNameDispatch = "store.dispatch"

	logMsgDispatched   = "action dispatched"
	logMsgReduceFailed = "reducer failed, state unchanged"
	logMsgStoreCreated = "store created"
	logMsgStoreClosed  = "store closed"
	logAttrStoreName   = "store_name"
	logAttrActionType  = "action_type"
	logAttrDurationMS  = "duration_ms"
	logAttrMiddlewares = "middlewares"
)

// Dispatcher passes an action on and returns the action that was finally dispatched.
type Dispatcher func(action Action) (Action, error)

// Reducer derives the next state from the current state and an action.
// It must be pure: no I/O, no blocking, no mutation of state.
type Reducer[S any] func(state S, action Action) (S, error)

// Unsubscribe cancels a subscription. Calling it more than once is safe.
type Unsubscribe func()

// Store is the contract shared by StateStore and its read projections.
type Store[S any] interface {
	Dispatch(action Action) (Action, error)
	GetState() S
	Subscribe(observer func(state S)) Unsubscribe
}

// MiddlewareStore is what a Middleware gets to see of the store it is installed in.
// Context is cancelled when the store is closed and bounds all background work started by middleware.
type MiddlewareStore[S any] interface {
	Store[S]
	Context() context.Context
}

// Middleware wraps the dispatch chain of a store.
// Middlewares are applied in the order they are supplied: the first one sees an action first.
type Middleware[S any] func(st MiddlewareStore[S]) func(next Dispatcher) Dispatcher

type subscription[S any] struct {
	id       string
	observer func(state S)
}

// StateStore holds a single state value that changes only by reducing dispatched actions.
//
// Dispatches are serialized. Subscribers are notified synchronously, in subscription order,
// while the dispatch lock is held: an observer must not call Dispatch or Subscribe synchronously.
type StateStore[S any] struct {
	id          uuid.UUID
	name        string
	reducer     Reducer[S]
	middlewares []Middleware[S]
	parentCtx   context.Context
	ctx         context.Context
	cancel      context.CancelFunc
	dispatch    Dispatcher
	dispatchMu  sync.Mutex
	stateMu     sync.RWMutex
	state       S
	subsMu      sync.Mutex
	subs        []subscription[S]
	closed      atomic.Bool
	observer    Observer
}

// New creates a StateStore holding initial and reducing every dispatched action with reducer.
func New[S any](reducer Reducer[S], initial S, options ...Option[S]) (*StateStore[S], error) {
	if reducer == nil {
		return nil, ErrNilReducer
	}

	s := &StateStore[S]{
		id:        uuid.New(),
		name:      defaultStoreName,
		reducer:   reducer,
		parentCtx: context.Background(),
		state:     initial,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	s.ctx, s.cancel = context.WithCancel(s.parentCtx)

	dispatch := Dispatcher(s.reduce)
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		dispatch = s.middlewares[i](s)(dispatch)
	}
	s.dispatch = dispatch

	s.observer.Info(s.ctx, logMsgStoreCreated, logAttrStoreName, s.name, logAttrMiddlewares, len(s.middlewares))

	return s, nil
}

// ID returns the unique identifier of this store instance.
func (s *StateStore[S]) ID() uuid.UUID {
	return s.id
}

// Name returns the configured store name.
func (s *StateStore[S]) Name() string {
	return s.name
}

// Context returns the lifetime context of the store. It is cancelled by Close.
func (s *StateStore[S]) Context() context.Context {
	return s.ctx
}

// Dispatch sends action through the middleware chain into the reducer.
// If the reducer fails, the previous state is kept and the error is returned.
func (s *StateStore[S]) Dispatch(action Action) (Action, error) {
	if action == nil {
		return nil, ErrNilAction
	}

	if s.closed.Load() {
		return action, ErrStoreClosed
	}

	return s.dispatch(action)
}

// GetState returns the current state.
func (s *StateStore[S]) GetState() S {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	return s.state
}

// Subscribe registers observer for state changes. The observer is called immediately with the
// current state and then after every successful dispatch.
func (s *StateStore[S]) Subscribe(observer func(state S)) Unsubscribe {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	id := uuid.NewString()

	s.subsMu.Lock()
	s.subs = append(s.subs, subscription[S]{id: id, observer: observer})
	count := len(s.subs)
	s.subsMu.Unlock()

	s.observer.RecordValue(s.ctx, SubscribersMetric, float64(count), map[string]string{LabelStoreName: s.name})

	observer(s.GetState())

	var once sync.Once

	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

// Close cancels the store's context, which stops background work of middlewares such as effects.
// Dispatching to a closed store fails with ErrStoreClosed.
func (s *StateStore[S]) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.cancel()
		s.observer.Info(context.Background(), logMsgStoreClosed, logAttrStoreName, s.name)
	}

	return nil
}

// reduce is the innermost link of the dispatch chain.
func (s *StateStore[S]) reduce(action Action) (Action, error) {
	actionType := action.ActionType()
	labels := map[string]string{LabelStoreName: s.name, LabelActionType: actionType}

	ctx, span := s.observer.StartSpan(s.ctx, spanNameDispatch, labels)
	start := time.Now()

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	next, err := s.reducer(s.GetState(), action)
	if err != nil {
		s.observer.Error(ctx, logMsgReduceFailed, err, logAttrStoreName, s.name, logAttrActionType, actionType)
		s.observer.IncrementCounter(ctx, DispatchErrorsMetric, labels)
		s.observer.FinishSpan(span, StatusError, nil)

		return action, err
	}

	s.stateMu.Lock()
	s.state = next
	s.stateMu.Unlock()

	s.notify(next)

	duration := time.Since(start)
	s.observer.Debug(ctx, logMsgDispatched,
		logAttrStoreName, s.name,
		logAttrActionType, actionType,
		logAttrDurationMS, ToMilliseconds(duration))
	s.observer.IncrementCounter(ctx, DispatchCallsMetric, labels)
	s.observer.RecordDuration(ctx, DispatchDurationMetric, duration, labels)
	s.observer.FinishSpan(span, StatusSuccess, nil)

	return action, nil
}

func (s *StateStore[S]) notify(state S) {
	s.subsMu.Lock()
	subs := make([]subscription[S], len(s.subs))
	copy(subs, s.subs)
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.observer(state)
	}
}

func (s *StateStore[S]) unsubscribe(id string) {
	s.subsMu.Lock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			break
		}
	}
	count := len(s.subs)
	s.subsMu.Unlock()

	s.observer.RecordValue(s.ctx, SubscribersMetric, float64(count), map[string]string{LabelStoreName: s.name})
}

var _ MiddlewareStore[int] = (*StateStore[int])(nil)
