package orchestrator

import "context"

// WorkerAdapter performs the actual work for a task. The orchestrator
// treats it as opaque: a fallible function from task input to task
// output. Implementations are expected to honor context cancellation,
// but the orchestrator abandons (rather than waits on) adapters that do
// not.
type WorkerAdapter interface {
	// Call executes the task against this worker.
	Call(ctx context.Context, input []byte) ([]byte, error)
}

// AdapterFunc adapts a plain function to the WorkerAdapter interface.
type AdapterFunc func(ctx context.Context, input []byte) ([]byte, error)

// Call implements WorkerAdapter.
func (f AdapterFunc) Call(ctx context.Context, input []byte) ([]byte, error) {
	return f(ctx, input)
}
