package orchestrator

import (
	"errors"

	"github.com/voxroute/voxroute/internal/registry"
	"github.com/voxroute/voxroute/internal/resilience"
)

// The orchestrator's error taxonomy. Every failure returned by Submit or
// RegisterWorker matches exactly one of these with errors.Is, so callers
// can distinguish "no capability matched" from "the worker failed" from
// "the worker is temporarily disabled" without string inspection.
var (
	// ErrNoCandidate indicates no registered worker's expertise tags
	// overlap the task's required tags.
	ErrNoCandidate = errors.New("no worker matches the required tags")

	// ErrWorkerNotFound indicates the chosen worker has a capability but
	// no adapter. Defensive; should not occur through the public API.
	ErrWorkerNotFound = errors.New("no adapter for chosen worker")

	// ErrDuplicateRegistration indicates a conflicting registration for
	// an existing worker ID without the replace flag.
	ErrDuplicateRegistration = registry.ErrDuplicateRegistration

	// ErrTimeout indicates the worker did not finish within the task timeout.
	ErrTimeout = resilience.ErrTimeout

	// ErrCircuitOpen indicates the worker's circuit breaker short-circuited
	// the call without invoking the worker.
	ErrCircuitOpen = resilience.ErrCircuitOpen

	// ErrWorkerFailed wraps the adapter's own failure.
	ErrWorkerFailed = errors.New("worker execution failed")

	// ErrCancelled indicates the caller's context was cancelled before the
	// task reached a terminal state on its own.
	ErrCancelled = errors.New("task cancelled")

	// ErrShutdown indicates the orchestrator is no longer accepting tasks.
	ErrShutdown = errors.New("orchestrator is shut down")
)
