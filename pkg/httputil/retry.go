package httputil

import (
	"context"
	"errors"
	"math"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
//
// Throttled marks rate-limit and gateway responses (429, 502, 503, 504).
// Those wait After when the server supplied a hint, else 2^attempt+0.5s.
// Other retryable errors (timeouts, dropped connections) use the policy's
// growing backoff delay.
type RetryableError struct {
	Err       error
	After     time.Duration
	Throttled bool
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy controls [Policy.Do].
type Policy struct {
	// Attempts is the total number of tries, at least 1.
	Attempts int
	// Delay is the first backoff for non-throttled failures.
	Delay time.Duration
	// Factor multiplies Delay after each non-throttled failure.
	Factor float64
	// Pause precedes every attempt regardless of outcome.
	Pause time.Duration
}

// Default policy values.
const (
	DefaultAttempts = 5
	DefaultDelay    = time.Second
	DefaultFactor   = 1.5
	DefaultPause    = 300 * time.Millisecond
)

// DefaultPolicy returns 5 attempts, a 1s initial delay growing by 1.5x and a
// 300ms courtesy pause.
func DefaultPolicy() Policy {
	return Policy{
		Attempts: DefaultAttempts,
		Delay:    DefaultDelay,
		Factor:   DefaultFactor,
		Pause:    DefaultPause,
	}
}

// Do runs fn until it succeeds, returns a non-retryable error, or the
// attempts run out. The context is checked before every pause and wait;
// on cancellation Do returns ctx.Err(). When attempts are exhausted the last
// error is returned.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := max(p.Attempts, 1)
	factor := p.Factor
	if factor <= 0 {
		factor = 1
	}
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		if err := Sleep(ctx, p.Pause); err != nil {
			return err
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := delay
		if re.Throttled {
			wait = ThrottleWait(i, re.After)
		} else {
			delay = time.Duration(float64(delay) * factor)
		}
		if err := Sleep(ctx, wait); err != nil {
			return err
		}
	}
	return lastErr
}

// ThrottleWait is the wait after a throttled attempt: the server hint when
// positive, else 2^attempt+0.5 seconds.
func ThrottleWait(attempt int, hint time.Duration) time.Duration {
	if hint > 0 {
		return hint
	}
	secs := math.Pow(2, float64(attempt)) + 0.5
	return time.Duration(secs * float64(time.Second))
}

// Sleep waits for d or until ctx is done. It checks ctx first, so a
// cancelled context returns immediately even for d <= 0.
func Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retry executes fn up to attempts times, doubling delay after each
// retryable failure. It has no courtesy pause.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	p := Policy{Attempts: attempts, Delay: delay, Factor: 2}
	return p.Do(ctx, func(context.Context) error { return fn() })
}
