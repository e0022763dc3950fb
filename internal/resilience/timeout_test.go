package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecuteWithTimeout_CompletesInTime(t *testing.T) {
	got, err := ExecuteWithTimeout(context.Background(), time.Second, func(ctx context.Context) (string, error) {
		return "done", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "done" {
		t.Errorf("got %q, want %q", got, "done")
	}
}

func TestExecuteWithTimeout_PropagatesOperationError(t *testing.T) {
	opErr := errors.New("worker exploded")
	_, err := ExecuteWithTimeout(context.Background(), time.Second, func(ctx context.Context) (int, error) {
		return 0, opErr
	})
	if !errors.Is(err, opErr) {
		t.Errorf("error = %v, want %v", err, opErr)
	}
}

func TestExecuteWithTimeout_TimesOut(t *testing.T) {
	start := time.Now()
	_, err := ExecuteWithTimeout(context.Background(), 50*time.Millisecond, func(ctx context.Context) (string, error) {
		// Never completes on its own.
		<-ctx.Done()
		time.Sleep(10 * time.Second)
		return "too late", nil
	})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	if elapsed > time.Second {
		t.Errorf("caller blocked for %v, want well under 1s", elapsed)
	}
}

func TestExecuteWithTimeout_LateCompletionDiscarded(t *testing.T) {
	completed := make(chan struct{})

	_, err := ExecuteWithTimeout(context.Background(), 20*time.Millisecond, func(ctx context.Context) (string, error) {
		time.Sleep(100 * time.Millisecond)
		close(completed)
		return "late", nil
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}

	// The abandoned operation must still be able to finish without
	// blocking on result delivery.
	select {
	case <-completed:
	case <-time.After(time.Second):
		t.Error("abandoned operation never completed; result channel blocked")
	}
}

func TestExecuteWithTimeout_ParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := ExecuteWithTimeout(ctx, 10*time.Second, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("parent cancellation must not be reported as a timeout")
	}
}

func TestExecuteWithTimeout_ConcurrentCalls(t *testing.T) {
	// Many concurrent wrappers with different durations must not share state.
	results := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func(i int) {
			_, err := ExecuteWithTimeout(context.Background(), time.Second, func(ctx context.Context) (int, error) {
				time.Sleep(time.Duration(i) * time.Millisecond)
				return i, nil
			})
			results <- err
		}(i)
	}
	for i := 0; i < 20; i++ {
		if err := <-results; err != nil {
			t.Errorf("concurrent call failed: %v", err)
		}
	}
}
