package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

var fastRetry = retryConfig{maxRetries: 3, baseDelay: time.Millisecond, maxDelay: 2 * time.Millisecond}

// TestRetryOpTransient verifies that busy errors are retried until success.
func TestRetryOpTransient(t *testing.T) {
	calls := 0
	err := retryOp(context.Background(), fastRetry, func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("retryOp: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

// TestRetryOpPermanent checks that other errors surface after one attempt.
func TestRetryOpPermanent(t *testing.T) {
	calls := 0
	want := errors.New("no such table: kv")
	err := retryOp(context.Background(), fastRetry, func() error {
		calls++
		return want
	})
	if !errors.Is(err, want) || calls != 1 {
		t.Errorf("err = %v after %d calls", err, calls)
	}
}

// TestRetryOpGivesUp checks the attempt limit.
func TestRetryOpGivesUp(t *testing.T) {
	calls := 0
	err := retryOp(context.Background(), fastRetry, func() error {
		calls++
		return errors.New("SQLITE_LOCKED")
	})
	if err == nil || calls != fastRetry.maxRetries+1 {
		t.Errorf("err = %v after %d calls", err, calls)
	}
}

// TestRetryOpCanceled stops waiting once the context is done.
func TestRetryOpCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := retryOp(ctx, retryConfig{maxRetries: 3, baseDelay: time.Second, maxDelay: time.Second}, func() error {
		return errors.New("SQLITE_BUSY")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// TestBackoffDelayCapped keeps the delay within maxDelay plus jitter.
func TestBackoffDelayCapped(t *testing.T) {
	cfg := retryConfig{maxRetries: 10, baseDelay: 50 * time.Millisecond, maxDelay: 500 * time.Millisecond}
	for attempt := 0; attempt < 10; attempt++ {
		d := backoffDelay(cfg, attempt)
		if d > cfg.maxDelay+cfg.baseDelay {
			t.Errorf("attempt %d: delay %v exceeds cap", attempt, d)
		}
	}
}
