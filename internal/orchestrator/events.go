// Package orchestrator routes tasks to registered workers and guards
// every worker invocation with timeout and circuit-breaker protection.
package orchestrator

import (
	"time"

	"github.com/voxroute/voxroute/pkg/models"
)

// EventType represents the type of orchestrator event.
type EventType string

const (
	// EventWorkerRegistered indicates a worker was added to the registry.
	EventWorkerRegistered EventType = "worker_registered"
	// EventTaskSubmitted indicates a task was accepted for processing.
	EventTaskSubmitted EventType = "task_submitted"
	// EventWorkerSelected indicates a worker was chosen for a task.
	EventWorkerSelected EventType = "worker_selected"
	// EventTaskCompleted indicates a task completed successfully.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed indicates a task failed.
	EventTaskFailed EventType = "task_failed"
	// EventBreakerOpened indicates a worker's circuit breaker opened.
	EventBreakerOpened EventType = "breaker_opened"
)

// Event represents an event emitted by the orchestrator. Events are
// observability only; dropping one never affects task outcomes.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// TaskID is the ID of the related task, if applicable.
	TaskID string
	// WorkerID is the ID of the related worker, if applicable.
	WorkerID string
	// Message provides additional context about the event.
	Message string
	// Error contains error details for failure events.
	Error error
	// Status is the task's lifecycle state at emission time.
	Status models.TaskStatus
	// Timestamp is when the event occurred.
	Timestamp time.Time
}
