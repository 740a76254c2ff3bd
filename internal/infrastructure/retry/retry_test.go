package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoFirstAttemptSucceeds(t *testing.T) {
	calls := 0
	value, err := Do(context.Background(), 3, func(_ context.Context) (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != 42 {
		t.Errorf("value = %d, want 42", value)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	value, err := Do(context.Background(), 3, func(_ context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "ok" {
		t.Errorf("value = %q, want ok", value)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	first := errors.New("first")
	last := errors.New("last")

	calls := 0
	_, err := Do(context.Background(), 2, func(_ context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, first
		}
		return 0, last
	})
	if !errors.Is(err, last) {
		t.Fatalf("err = %v, want the last error", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestDoClampsAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), 0, func(_ context.Context) (int, error) {
		calls++
		return 0, errors.New("nope")
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want at least one attempt", calls)
	}
}

func TestDoContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	var err error
	go func() {
		defer close(done)
		_, err = Do(ctx, 5, func(_ context.Context) (int, error) {
			return 0, errors.New("keep retrying")
		})
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Do did not return after cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
