package persist

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

const (
	defaultFinalSaveAttempts = 3
	defaultRetryBaseDelay    = 50 * time.Millisecond
	retryJitterFactor        = 0.3
)

// retryPolicy retries a failing save with exponential backoff.
//
// Attempt n (counting from 1) waits baseDelay * 2^(n-2) plus up to 30% jitter before it runs,
// so the default schedule is 0, 50 ms, 100 ms.
type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
}

// do runs fn until it succeeds, fails permanently, the attempts are used up or ctx ends.
// onRetry is called before every wait with the attempt that failed.
func (r retryPolicy) do(ctx context.Context, fn func(ctx context.Context) error, onRetry func(attempt int, delay time.Duration, err error)) error {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := r.backoff(attempt)
			onRetry(attempt-1, delay, lastErr)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return errors.Join(lastErr, ctx.Err())
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil || isPermanent(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

func (r retryPolicy) backoff(attempt int) time.Duration {
	delay := r.baseDelay * time.Duration(1<<(attempt-2))
	jitter := rand.Float64() * float64(delay) * retryJitterFactor //nolint:gosec // jitter does not need a secure source

	return delay + time.Duration(jitter)
}

// isPermanent reports errors a retry cannot fix.
func isPermanent(err error) bool {
	return errors.Is(err, ErrEncodingStateFailed) ||
		errors.Is(err, ErrEmptyStoreName) ||
		errors.Is(err, ErrInvalidSnapshotJSON) ||
		errors.Is(err, context.Canceled)
}
