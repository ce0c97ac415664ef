package pipeline

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/mategest/internal/profile"
)

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3

// withRetry calls fn until it succeeds, fails permanently, or runs out of
// attempts. Only profile.RetryableError failures are retried.
func withRetry[T any](ctx context.Context, attempts int, backoff func(int) time.Duration, onRetry func(attempt int, err error), fn func() (T, error)) (T, error) {
	if attempts <= 0 {
		attempts = MaxRetries
	}
	var zero T
	var lastErr error
	for attempt := range attempts {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !profile.IsRetryable(err) || attempt == attempts-1 {
			break
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		select {
		case <-time.After(backoff(attempt)):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	return zero, lastErr
}
