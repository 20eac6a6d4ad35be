package retry

import (
	"context"
	"time"
)

// Options controls retry behavior
type Options struct {
	// MaxRetries is the number of retries after the initial attempt,
	// so an operation runs at most MaxRetries+1 times.
	MaxRetries int

	// InitialDelay is the wait before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the backoff delay.
	MaxDelay time.Duration

	// BackoffMultiplier scales the delay after each attempt.
	BackoffMultiplier float64

	// Retryable decides whether an error is worth retrying. A nil predicate
	// retries every error.
	Retryable func(error) bool
}

// DefaultOptions returns the standard retry configuration
func DefaultOptions() Options {
	return Options{
		MaxRetries:        3,
		InitialDelay:      1 * time.Second,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2,
	}
}

// Do runs op until it succeeds, the error is classified non-retryable, the
// retry budget is exhausted, or the context is cancelled. The last error is
// returned unwrapped; Do never swallows a non-retryable error, even on the
// first attempt.
func Do[T any](ctx context.Context, op func(ctx context.Context) (T, error), opts Options) (T, error) {
	var zero T

	delay := opts.InitialDelay
	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == opts.MaxRetries {
			break
		}
		if opts.Retryable != nil && !opts.Retryable(err) {
			break
		}

		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
		delay = nextDelay(delay, opts)
	}
	return zero, lastErr
}

// nextDelay advances the backoff delay, capped at MaxDelay
func nextDelay(delay time.Duration, opts Options) time.Duration {
	next := time.Duration(float64(delay) * opts.BackoffMultiplier)
	if opts.MaxDelay > 0 && next > opts.MaxDelay {
		next = opts.MaxDelay
	}
	return next
}

// sleep waits for d or until the context is cancelled
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
