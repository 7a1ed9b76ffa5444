package persist

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/AntonStoeckl/composable-store-go/store"
)

const (
	defaultFinalSaveTimeout = 5 * time.Second

	// SnapshotSavesMetric counts snapshot saves by status.
	SnapshotSavesMetric = "persist_snapshot_saves_total"

	// SnapshotSaveDurationMetric tracks how long encoding and saving a snapshot took.
	SnapshotSaveDurationMetric = "persist_snapshot_save_duration_seconds"

	// SnapshotSaveRetriesMetric counts retries of the final save.
	SnapshotSaveRetriesMetric = "persist_snapshot_save_retries_total"

	spanNameSave = "persist.save"

	labelFinal = "final"

	logMsgSaved        = "snapshot saved"
	logMsgSaveFailed   = "saving snapshot failed"
	logMsgWriterStop   = "snapshot writer stopped"
	logMsgSaveRetry    = "retrying final snapshot save"
	logAttrAttempt     = "attempt"
	logAttrDelayMS     = "delay_ms"
	logAttrStoreName   = "store_name"
	logAttrVersion     = "version"
	logAttrFinal       = "final"
	logAttrDurationMS  = "duration_ms"
	logAttrSavedStates = "saved"
)

// Persister is a store middleware saving the latest state in the background.
// One Persister serves exactly one store.
type Persister[S any] struct {
	target           SnapshotStore
	storeName        string
	version          uint64
	finalSaveTimeout time.Duration
	finalSaveRetry   retryPolicy
	observer         store.Observer

	current func() S

	mu    sync.Mutex
	dirty bool

	signal chan struct{}
	done   chan struct{}
	start  sync.Once
	saved  int
}

// NewPersister creates a Persister writing snapshots of storeName to target.
func NewPersister[S any](target SnapshotStore, storeName string, options ...Option) (*Persister[S], error) {
	if target == nil {
		return nil, ErrNilSnapshotStore
	}

	if storeName == "" {
		return nil, ErrEmptyStoreName
	}

	cfg := settings{
		finalSaveTimeout: defaultFinalSaveTimeout,
		finalSaveRetry:   retryPolicy{maxAttempts: defaultFinalSaveAttempts, baseDelay: defaultRetryBaseDelay},
	}
	for _, option := range options {
		if err := option(&cfg); err != nil {
			return nil, err
		}
	}

	return &Persister[S]{
		target:           target,
		storeName:        storeName,
		version:          cfg.startVersion,
		finalSaveTimeout: cfg.finalSaveTimeout,
		finalSaveRetry:   cfg.finalSaveRetry,
		observer:         cfg.observer,
		signal:           make(chan struct{}, 1),
		done:             make(chan struct{}),
	}, nil
}

// Middleware is a store.Middleware. It starts the background writer, bound to st.Context().
// Dispatches only mark the state dirty; the writer reads st.GetState() when it saves.
func (p *Persister[S]) Middleware(st store.MiddlewareStore[S]) func(next store.Dispatcher) store.Dispatcher {
	p.start.Do(func() {
		p.current = st.GetState
		go p.write(st.Context())
	})

	return func(next store.Dispatcher) store.Dispatcher {
		return func(action store.Action) (store.Action, error) {
			dispatched, err := next(action)
			if err != nil {
				return dispatched, err
			}

			p.markDirty()

			return dispatched, nil
		}
	}
}

// Done is closed after the store's context ended and the final save completed.
func (p *Persister[S]) Done() <-chan struct{} {
	return p.done
}

// Version returns the version of the last snapshot handed to the snapshot store.
func (p *Persister[S]) Version() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.version
}

func (p *Persister[S]) markDirty() {
	p.mu.Lock()
	p.dirty = true
	p.mu.Unlock()

	select {
	case p.signal <- struct{}{}:
	default:
	}
}

// take returns the store's current state if a dispatch changed it since the last save,
// and reserves the next version for it.
func (p *Persister[S]) take() (S, uint64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.dirty {
		var zero S
		return zero, 0, false
	}

	p.dirty = false
	p.version++

	return p.current(), p.version, true
}

// restore marks the state pending again after a failed save without waking the writer.
// The next dispatch or the final save picks it up.
func (p *Persister[S]) restore() {
	p.mu.Lock()
	p.dirty = true
	p.mu.Unlock()
}

func (p *Persister[S]) write(ctx context.Context) {
	defer close(p.done)

	for {
		select {
		case <-p.signal:
			p.saveLatest(ctx, false)

		case <-ctx.Done():
			finalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.finalSaveTimeout)
			p.saveLatest(finalCtx, true)
			cancel()

			p.observer.Info(finalCtx, logMsgWriterStop, logAttrStoreName, p.storeName, logAttrSavedStates, p.saved)

			return
		}
	}
}

func (p *Persister[S]) saveLatest(ctx context.Context, final bool) {
	state, version, ok := p.take()
	if !ok {
		return
	}

	labels := map[string]string{store.LabelStoreName: p.storeName, labelFinal: strconv.FormatBool(final)}
	ctx, span := p.observer.StartSpan(ctx, spanNameSave, labels)
	start := time.Now()

	var err error
	if final {
		err = p.finalSaveRetry.do(ctx, func(ctx context.Context) error {
			return p.save(ctx, state, version)
		}, func(attempt int, delay time.Duration, retryErr error) {
			p.observer.Warn(ctx, logMsgSaveRetry,
				logAttrStoreName, p.storeName,
				logAttrVersion, version,
				logAttrAttempt, attempt,
				logAttrDelayMS, store.ToMilliseconds(delay),
				"error", retryErr.Error())
			p.observer.IncrementCounter(ctx, SnapshotSaveRetriesMetric, map[string]string{store.LabelStoreName: p.storeName})
		})
	} else {
		err = p.save(ctx, state, version)
	}
	duration := time.Since(start)

	if err != nil {
		p.restore()

		labels[store.LabelStatus] = store.StatusError
		p.observer.Error(ctx, logMsgSaveFailed, err,
			logAttrStoreName, p.storeName,
			logAttrVersion, version,
			logAttrFinal, final)
		p.observer.IncrementCounter(ctx, SnapshotSavesMetric, labels)
		p.observer.FinishSpan(span, store.StatusError, nil)

		return
	}

	p.saved++
	labels[store.LabelStatus] = store.StatusSuccess
	p.observer.Debug(ctx, logMsgSaved,
		logAttrStoreName, p.storeName,
		logAttrVersion, version,
		logAttrFinal, final,
		logAttrDurationMS, store.ToMilliseconds(duration))
	p.observer.IncrementCounter(ctx, SnapshotSavesMetric, labels)
	p.observer.RecordDuration(ctx, SnapshotSaveDurationMetric, duration, labels)
	p.observer.FinishSpan(span, store.StatusSuccess, nil)
}

func (p *Persister[S]) save(ctx context.Context, state S, version uint64) error {
	snapshot, err := BuildSnapshot(p.storeName, version, state)
	if err != nil {
		return err
	}

	return p.target.SaveSnapshot(ctx, snapshot)
}
