package submit

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

type action int

const (
	stop       action = iota // permanent error, abort immediately
	retry                    // transient error, use normal backoff
	retryAfter               // rate-limited, use longer backoff
)

// RetryPolicy controls how transient failures are retried
type RetryPolicy struct {
	MaxAttempts      int
	InitialBackoff   time.Duration
	RateLimitBackoff time.Duration
	OnRetry          func(attempt int, err error, backoff time.Duration)
}

// DefaultRetryPolicy retries twice with 200ms doubling backoff
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:      3,
	InitialBackoff:   200 * time.Millisecond,
	RateLimitBackoff: time.Second,
}

type classifyFunc func(err error) action

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// doRetry runs op until it succeeds, classify says stop, attempts run out or
// ctx is done. Backoff waits on clock.
func doRetry[T any](ctx context.Context, clock clockwork.Clock, p RetryPolicy, classify classifyFunc, op func() (T, error)) (T, error) {
	var zero T
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	backoff := p.InitialBackoff

	for attempt := 1; ; attempt++ {
		val, err := op()
		if err == nil {
			return val, nil
		}

		act := classify(err)
		if act == stop {
			return zero, &permanentError{err: err}
		}
		if attempt == p.MaxAttempts {
			return zero, fmt.Errorf("failed after %d attempts: %w", p.MaxAttempts, err)
		}
		if act == retryAfter {
			backoff = p.RateLimitBackoff
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, backoff)
		}

		select {
		case <-clock.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return zero, fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}
}
