package cache

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks an error as transient. The registry clients wrap
// network failures and 5xx responses with it so RetryWithBackoff knows
// which lookups are worth repeating.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// backoff doubles the delay between attempts, starting at initial.
type backoff struct {
	attempts int
	initial  time.Duration
}

// defaultBackoff caps a failing lookup at two waits, 1s then 2s.
var defaultBackoff = backoff{attempts: 3, initial: time.Second}

// RetryWithBackoff runs fn, repeating it with exponential backoff while it
// fails with a retryable error. Non-retryable errors and context
// cancellation end the attempts immediately.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return defaultBackoff.run(ctx, fn)
}

func (b backoff) run(ctx context.Context, fn func() error) error {
	delay := b.initial
	var lastErr error

	for attempt := 0; attempt < b.attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		lastErr = err

		if attempt == b.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}
