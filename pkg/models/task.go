package models

import "time"

// TaskKind identifies the category of work a task represents.
type TaskKind string

const (
	// KindVoiceProcessing is audio transcription work.
	KindVoiceProcessing TaskKind = "voice_processing"
	// KindEntityExtraction is named-entity extraction work.
	KindEntityExtraction TaskKind = "entity_extraction"
	// KindResponseGeneration is conversational response generation work.
	KindResponseGeneration TaskKind = "response_generation"
	// KindTTS is speech synthesis work.
	KindTTS TaskKind = "tts"
	// KindAnalysis is general text analysis work.
	KindAnalysis TaskKind = "analysis"
)

// Valid returns true if the kind is a known value.
func (k TaskKind) Valid() bool {
	switch k {
	case KindVoiceProcessing, KindEntityExtraction, KindResponseGeneration, KindTTS, KindAnalysis:
		return true
	default:
		return false
	}
}

// TaskPriority orders tasks waiting for an execution slot.
// It never preempts a task that is already executing.
type TaskPriority string

const (
	// PriorityLow is background work.
	PriorityLow TaskPriority = "low"
	// PriorityMedium is the default priority.
	PriorityMedium TaskPriority = "medium"
	// PriorityHigh is latency-sensitive work.
	PriorityHigh TaskPriority = "high"
	// PriorityCritical is work that must run before anything else queued.
	PriorityCritical TaskPriority = "critical"
)

// Valid returns true if the priority is a known value.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// Weight returns the numeric ordering weight for the priority.
// Higher weights are admitted first. Unknown priorities sort with medium.
func (p TaskPriority) Weight() int {
	switch p {
	case PriorityCritical:
		return 3
	case PriorityHigh:
		return 2
	case PriorityLow:
		return 0
	default:
		return 1
	}
}

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has been accepted but not yet analyzed.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusSelecting indicates worker selection is in progress.
	TaskStatusSelecting TaskStatus = "selecting"
	// TaskStatusExecuting indicates the chosen worker is running the task.
	TaskStatusExecuting TaskStatus = "executing"
	// TaskStatusCompleted indicates the task finished successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusSelecting, TaskStatusExecuting, TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// Terminal returns true if the status is a terminal state.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// TaskRequest is a unit of work submitted to the orchestrator.
// It is never mutated after submission.
type TaskRequest struct {
	// ID is the unique identifier for this task. Assigned by the
	// orchestrator at submission if empty.
	ID string `json:"id"`
	// Kind is the category of work.
	Kind TaskKind `json:"kind"`
	// Input is the opaque task payload. The orchestrator never inspects it.
	Input []byte `json:"input,omitempty"`
	// RequiredTags are the expertise tags the chosen worker must overlap.
	RequiredTags []string `json:"required_tags"`
	// Priority orders this task against others waiting for a slot.
	Priority TaskPriority `json:"priority"`
}

// ReasoningStep is one entry in a task's selection trace.
type ReasoningStep struct {
	// Step names the reasoning phase (analyze, match, select, finalize).
	Step string `json:"step"`
	// Detail is the human-readable description of what happened.
	Detail string `json:"detail"`
	// Confidence is the confidence assigned to this step, in [0,1].
	Confidence float64 `json:"confidence"`
	// Timestamp is when the step was recorded.
	Timestamp time.Time `json:"timestamp"`
}

// TaskRecord tracks a task through its lifecycle.
// It is owned exclusively by the orchestrator until the task reaches a
// terminal state, after which a snapshot is handed back to the caller.
type TaskRecord struct {
	// ID is the task identifier.
	ID string `json:"id"`
	// Request is the original submission.
	Request TaskRequest `json:"request"`
	// Status is the current lifecycle state.
	Status TaskStatus `json:"status"`
	// AssignedWorker is the ID of the worker chosen for execution.
	AssignedWorker string `json:"assigned_worker,omitempty"`
	// StartTime is when the task was submitted.
	StartTime time.Time `json:"start_time"`
	// EndTime is when the task reached a terminal state.
	EndTime time.Time `json:"end_time,omitempty"`
	// Error contains the failure message if the task failed.
	Error string `json:"error,omitempty"`
	// Result is the worker's output if the task completed.
	Result []byte `json:"result,omitempty"`
	// Trace is the ordered chain-of-thought selection trace.
	Trace []ReasoningStep `json:"trace,omitempty"`
	// FinalReasoning is the natural-language justification for the selection.
	FinalReasoning string `json:"final_reasoning,omitempty"`
	// Confidence is the mean confidence across all trace steps.
	Confidence float64 `json:"confidence"`
}

// TaskResult is the immutable outcome snapshot returned to callers.
type TaskResult struct {
	// TaskID is the task identifier.
	TaskID string `json:"task_id"`
	// WorkerID is the worker that executed (or was assigned) the task.
	WorkerID string `json:"worker_id,omitempty"`
	// Status is the terminal state the task reached.
	Status TaskStatus `json:"status"`
	// Output is the worker's result payload, if any.
	Output []byte `json:"output,omitempty"`
	// Trace is the selection trace recorded during worker selection.
	Trace []ReasoningStep `json:"trace,omitempty"`
	// FinalReasoning explains why the worker was chosen.
	FinalReasoning string `json:"final_reasoning,omitempty"`
	// Confidence is the aggregate selection confidence.
	Confidence float64 `json:"confidence"`
	// Duration is the wall-clock time from submission to terminal state.
	Duration time.Duration `json:"duration"`
}
