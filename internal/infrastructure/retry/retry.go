// Package retry provides a small bounded-retry helper for failable
// asynchronous operations.
package retry

import (
	"context"
	"math/rand"
	"time"
)

const (
	baseDelay = 500 * time.Millisecond
	maxJitter = 250 * time.Millisecond
)

// Do runs op up to attempts times, sleeping with linear backoff plus jitter
// between attempts. It returns the first successful value or the last error.
// Context cancellation aborts the wait between attempts.
func Do[T any](ctx context.Context, attempts int, op func(ctx context.Context) (T, error)) (T, error) {
	if attempts < 1 {
		attempts = 1
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		value, err := op(ctx)
		if err == nil {
			return value, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}
	return zero, lastErr
}

// backoff grows linearly with the attempt number and adds jitter so
// concurrent retries do not synchronize.
func backoff(attempt int) time.Duration {
	return time.Duration(attempt)*baseDelay + time.Duration(rand.Int63n(int64(maxJitter)))
}
