package models

import "time"

// WorkerMetrics holds rolling performance counters for a single worker.
// Counters are cumulative for the process lifetime (or since an explicit
// administrative reset) and satisfy CompletedTasks + FailedTasks == TotalTasks.
type WorkerMetrics struct {
	// WorkerID is the worker these counters belong to.
	WorkerID string `json:"worker_id"`
	// TotalTasks is the number of terminal tasks recorded for this worker.
	TotalTasks int64 `json:"total_tasks"`
	// CompletedTasks is the number of tasks that completed successfully.
	CompletedTasks int64 `json:"completed_tasks"`
	// FailedTasks is the number of tasks that failed.
	FailedTasks int64 `json:"failed_tasks"`
	// AverageResponseTimeMs is the incremental mean task latency.
	AverageResponseTimeMs float64 `json:"average_response_time_ms"`
	// SuccessRate is CompletedTasks / TotalTasks, 0 when no tasks recorded.
	SuccessRate float64 `json:"success_rate"`
	// LastUpdated is when the counters were last modified.
	LastUpdated time.Time `json:"last_updated"`
}
