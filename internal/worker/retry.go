package worker

import (
	"context"
	"errors"
	"time"
)

type erroPermanente struct{ err error }

func (e *erroPermanente) Error() string { return e.err.Error() }
func (e *erroPermanente) Unwrap() error { return e.err }

// Permanente marks err as not worth retrying (bad payload, missing configuration).
func Permanente(err error) error {
	if err == nil {
		return nil
	}
	return &erroPermanente{err: err}
}

func ehPermanente(err error) bool {
	var p *erroPermanente
	return errors.As(err, &p)
}

// backoffExponencial waits 1s before the second attempt, 2s before the third, and so on.
func backoffExponencial(n int) time.Duration {
	return time.Duration(1<<uint(n-1)) * time.Second
}

// withRetry calls fn up to maxAttempts times, sleeping backoff(i) before attempt i.
// It returns the number of attempts made and nil if any attempt succeeded, the last
// error otherwise. A Permanente error stops immediately.
func withRetry(ctx context.Context, maxAttempts int, backoff func(int) time.Duration, fn func(attempt int) error) (int, error) {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return i, ctx.Err()
			case <-time.After(backoff(i)):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			if ehPermanente(err) {
				return i + 1, err
			}
			continue
		}
		return i + 1, nil
	}
	return maxAttempts, lastErr
}
