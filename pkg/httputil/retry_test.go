package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func TestPolicyDo(t *testing.T) {
	fast := Policy{Attempts: 4, Delay: time.Millisecond, Factor: 1.5}

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success first try", 0, true, 1, false},
		{"recovers", 2, true, 3, false},
		{"exhausted", 10, true, 4, true},
		{"permanent", 10, false, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := fast.Do(context.Background(), func(context.Context) error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return &RetryableError{Err: errBoom}
					}
					return errBoom
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errBoom) {
				t.Errorf("err = %v, want wrapped errBoom", err)
			}
		})
	}
}

func TestPolicyDoThrottleHint(t *testing.T) {
	p := Policy{Attempts: 2, Delay: time.Hour}
	calls := 0
	start := time.Now()
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return &RetryableError{Err: errBoom, Throttled: true, After: 5 * time.Millisecond}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() = %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("throttle hint ignored, waited %v", elapsed)
	}
}

func TestPolicyDoPause(t *testing.T) {
	p := Policy{Attempts: 1, Pause: 20 * time.Millisecond}
	start := time.Now()
	_ = p.Do(context.Background(), func(context.Context) error { return nil })
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("pause not applied, elapsed %v", elapsed)
	}
}

func TestPolicyDoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{Attempts: 5, Delay: time.Hour}

	calls := 0
	err := p.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return &RetryableError{Err: errBoom}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	calls = 0
	err = p.Do(ctx, func(context.Context) error { calls++; return nil })
	if !errors.Is(err, context.Canceled) || calls != 0 {
		t.Errorf("cancelled context should stop before the first attempt: err=%v calls=%d", err, calls)
	}
}

func TestThrottleWait(t *testing.T) {
	tests := []struct {
		attempt int
		hint    time.Duration
		want    time.Duration
	}{
		{0, 0, 1500 * time.Millisecond},
		{1, 0, 2500 * time.Millisecond},
		{3, 0, 8500 * time.Millisecond},
		{3, 2 * time.Second, 2 * time.Second},
	}
	for _, tt := range tests {
		if got := ThrottleWait(tt.attempt, tt.hint); got != tt.want {
			t.Errorf("ThrottleWait(%d, %v) = %v, want %v", tt.attempt, tt.hint, got, tt.want)
		}
	}
}

func TestRetry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return &RetryableError{Err: errBoom}
	})
	if calls != 3 || !errors.Is(err, errBoom) {
		t.Errorf("calls = %d, err = %v", calls, err)
	}
}

func TestRetryableErrorUnwrap(t *testing.T) {
	err := &RetryableError{Err: errBoom}
	if !errors.Is(err, errBoom) || err.Error() != "boom" {
		t.Errorf("unexpected wrapping: %v", err)
	}
}
