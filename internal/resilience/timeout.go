// Package resilience provides the timeout and circuit-breaker primitives
// that guard every worker invocation.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout indicates an operation exceeded its allotted duration.
var ErrTimeout = errors.New("operation timed out")

// ExecuteWithTimeout races op against the given timeout. If the timer
// fires first the operation's eventual result is discarded: op runs in
// its own goroutine with a buffered result channel, so a late completion
// never blocks or panics.
//
// The context passed to op is cancelled when the timeout fires or when
// the parent context is cancelled, giving cooperative operations a
// chance to stop early. Operations that ignore the context are simply
// abandoned.
func ExecuteWithTimeout[T any](ctx context.Context, timeout time.Duration, op func(context.Context) (T, error)) (T, error) {
	var zero T

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}

	// Buffered so the goroutine can always deliver and exit,
	// even after the caller has given up.
	done := make(chan outcome, 1)
	go func() {
		value, err := op(opCtx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-opCtx.Done():
		if ctx.Err() != nil {
			// Parent cancellation, not a timeout.
			return zero, ctx.Err()
		}
		return zero, fmt.Errorf("%w after %v", ErrTimeout, timeout)
	}
}
