package profile

import (
	"context"
	"errors"
	"fmt"
)

// Generator turns a prompt into profile text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// ErrNoKeys is returned when a provider has no credentials configured.
var ErrNoKeys = errors.New("no api keys configured")

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable reports whether err wraps a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
