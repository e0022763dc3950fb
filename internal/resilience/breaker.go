package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen indicates a call was short-circuited because the
// breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerState represents the current state of a circuit breaker.
type BreakerState string

const (
	// BreakerClosed means calls pass through normally.
	BreakerClosed BreakerState = "closed"
	// BreakerOpen means calls are short-circuited without invoking the operation.
	BreakerOpen BreakerState = "open"
	// BreakerHalfOpen means a single probe call is allowed through.
	BreakerHalfOpen BreakerState = "half-open"
)

// CircuitBreaker stops calling a failing dependency for a cooldown
// period after repeated consecutive failures. One breaker guards one
// call site (in practice, one worker).
type CircuitBreaker struct {
	failureThreshold int
	resetTimeout     time.Duration

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	probing  bool

	now func() time.Time // injectable clock for tests
}

// NewCircuitBreaker creates a closed breaker that opens after
// failureThreshold consecutive failures and allows a probe call once
// resetTimeout has elapsed. A threshold below 1 is treated as 1.
func NewCircuitBreaker(failureThreshold int, resetTimeout time.Duration) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		state:            BreakerClosed,
		now:              time.Now,
	}
}

// Execute runs op through the breaker. It returns ErrCircuitOpen without
// invoking op when the breaker is open (or when a half-open probe is
// already in flight), otherwise it returns op's error unchanged.
func (b *CircuitBreaker) Execute(op func() error) error {
	if err := b.allow(); err != nil {
		return err
	}

	err := op()
	b.record(err == nil)
	return err
}

// allow decides whether a call may proceed, applying the open -> half-open
// transition when the reset timeout has elapsed.
func (b *CircuitBreaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		return nil
	case BreakerOpen:
		if b.now().Sub(b.openedAt) < b.resetTimeout {
			return ErrCircuitOpen
		}
		b.state = BreakerHalfOpen
		b.probing = true
		return nil
	case BreakerHalfOpen:
		if b.probing {
			// Another probe is already in flight.
			return ErrCircuitOpen
		}
		b.probing = true
		return nil
	default:
		return nil
	}
}

// record applies the outcome of a permitted call.
func (b *CircuitBreaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if success {
		b.state = BreakerClosed
		b.failures = 0
		b.probing = false
		return
	}

	if b.state == BreakerHalfOpen {
		// Probe failed; reopen and restart the cooldown.
		b.state = BreakerOpen
		b.openedAt = b.now()
		b.probing = false
		return
	}

	b.failures++
	if b.failures >= b.failureThreshold {
		b.state = BreakerOpen
		b.openedAt = b.now()
	}
}

// GetState returns the breaker's current state. It is read-only and
// never triggers a transition; an open breaker whose cooldown has
// elapsed still reports open until the next Execute call.
func (b *CircuitBreaker) GetState() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// ConsecutiveFailures returns the current consecutive-failure count.
func (b *CircuitBreaker) ConsecutiveFailures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}
