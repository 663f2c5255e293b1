package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(maxRetries int) Config {
	return Config{
		MaxRetries:  maxRetries,
		BaseDelay:   5 * time.Millisecond,
		MaxDelay:    20 * time.Millisecond,
		Multiplier:  2.0,
		JitterRatio: 0,
	}
}

func TestDo(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		retryable bool
		retries   int
		wantCalls int
		wantErr   bool
	}{
		{"first try", 0, true, 3, 1, false},
		{"recovers after retryable errors", 2, true, 3, 3, false},
		{"permanent error is not retried", 5, false, 3, 1, true},
		{"gives up after max retries", 10, true, 2, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			result, err := Do(context.Background(), fastConfig(tt.retries), func() (string, error) {
				calls++
				if calls <= tt.failures {
					err := errors.New("provider overloaded")
					if tt.retryable {
						return "", Retryable(err)
					}
					return "", err
				}
				return "draft", nil
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("Do() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !tt.wantErr && result != "draft" {
				t.Errorf("result = %q, want %q", result, "draft")
			}
		})
	}
}

func TestDoUnwrapsFinalError(t *testing.T) {
	base := errors.New("rate_limit")
	_, err := Do(context.Background(), fastConfig(1), func() (int, error) {
		return 0, Retryable(base)
	})
	if IsRetryable(err) {
		t.Error("final error should not be wrapped in RetryableError")
	}
	if !errors.Is(err, base) {
		t.Errorf("expected base error, got %v", err)
	}
}

func TestDoCallsOnRetry(t *testing.T) {
	cfg := fastConfig(2)
	var attempts []int
	cfg.OnRetry = func(attempt int, _ time.Duration, _ error) {
		attempts = append(attempts, attempt)
	}

	_, _ = Do(context.Background(), cfg, func() (string, error) {
		return "", Retryable(errors.New("503"))
	})

	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("OnRetry attempts = %v, want [1 2]", attempts)
	}
}

func TestDoContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxRetries: 5, BaseDelay: time.Second, MaxDelay: time.Second, Multiplier: 1}

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := Do(ctx, cfg, func() (string, error) {
		return "", Retryable(errors.New("keep retrying"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRetryableNil(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	if IsRetryable(nil) {
		t.Error("nil should not be retryable")
	}
}

func TestDelayCapped(t *testing.T) {
	cfg := Config{BaseDelay: time.Second, MaxDelay: 3 * time.Second, Multiplier: 2}

	if got := cfg.delay(0); got != time.Second {
		t.Errorf("delay(0) = %v, want 1s", got)
	}
	if got := cfg.delay(1); got != 2*time.Second {
		t.Errorf("delay(1) = %v, want 2s", got)
	}
	if got := cfg.delay(5); got != 3*time.Second {
		t.Errorf("delay(5) = %v, want cap 3s", got)
	}
}

func TestDelayJitterBounds(t *testing.T) {
	cfg := Config{BaseDelay: time.Second, MaxDelay: time.Minute, Multiplier: 2, JitterRatio: 0.1}
	for i := 0; i < 50; i++ {
		d := cfg.delay(0)
		if d < 900*time.Millisecond || d > 1100*time.Millisecond {
			t.Fatalf("delay with jitter out of bounds: %v", d)
		}
	}
}

func TestRateLimiterWaitCancelled(t *testing.T) {
	rl := NewRateLimiter(0.001)
	// First token is available immediately
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); err == nil {
		t.Error("expected error when context expires before next token")
	}
}
