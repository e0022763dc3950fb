package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/voxroute/voxroute/internal/metrics"
	"github.com/voxroute/voxroute/internal/oracle"
	"github.com/voxroute/voxroute/internal/registry"
	"github.com/voxroute/voxroute/internal/resilience"
	"github.com/voxroute/voxroute/pkg/models"
)

// Config contains configuration options for the Orchestrator.
type Config struct {
	// Oracle breaks ties among candidate workers and writes justification
	// text. Optional; without one, ties fall to the highest score and
	// justifications are templated.
	Oracle oracle.Oracle
	// Metrics receives one Record call per terminal task.
	// If nil, a fresh in-memory store is created.
	Metrics *metrics.Store
	// TaskTimeout bounds each worker invocation. Defaults to 30s.
	TaskTimeout time.Duration
	// CeilingTimeout is the hard bound on a whole Submit call, covering
	// selection, queueing and execution. Defaults to 2m; 0 keeps the default.
	CeilingTimeout time.Duration
	// BreakerThreshold is the consecutive-failure count that opens a
	// worker's circuit breaker. Defaults to 3.
	BreakerThreshold int
	// BreakerResetTimeout is the cooldown before an open breaker allows a
	// probe call. Defaults to 30s.
	BreakerResetTimeout time.Duration
	// MaxConcurrent bounds concurrently executing tasks; queued tasks are
	// admitted in priority order. 0 means unbounded.
	MaxConcurrent int
	// EventBufferSize is the capacity of the event channel. Defaults to 64.
	EventBufferSize int
}

// withDefaults fills in unset config fields.
func (c Config) withDefaults() Config {
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = 30 * time.Second
	}
	if c.CeilingTimeout <= 0 {
		c.CeilingTimeout = 2 * time.Minute
	}
	if c.BreakerThreshold <= 0 {
		c.BreakerThreshold = 3
	}
	if c.BreakerResetTimeout <= 0 {
		c.BreakerResetTimeout = 30 * time.Second
	}
	if c.EventBufferSize <= 0 {
		c.EventBufferSize = 64
	}
	return c
}

// Orchestrator routes tasks to the best-matching registered worker.
// It owns the capability registry, the per-worker circuit breakers and
// the task lifecycle; workers and the reasoning oracle are opaque
// collaborators supplied by the embedding application.
//
// One Orchestrator is constructed at process start and shared; all
// methods are safe for concurrent use.
type Orchestrator struct {
	cfg      Config
	registry *registry.CapabilityRegistry
	selector *selector
	metrics  *metrics.Store
	emitter  *EventEmitter
	gate     *admissionGate

	// adapters maps worker IDs to their invocation functions.
	adapters   map[string]WorkerAdapter
	adaptersMu sync.RWMutex

	// breakers holds one circuit breaker per worker, created lazily.
	breakers   map[string]*resilience.CircuitBreaker
	breakersMu sync.Mutex

	closed   atomic.Bool
	inflight sync.WaitGroup
}

// New creates an Orchestrator with the given configuration.
func New(cfg Config) *Orchestrator {
	cfg = cfg.withDefaults()

	reg := registry.NewCapabilityRegistry()
	store := cfg.Metrics
	if store == nil {
		store = metrics.NewStore()
	}

	var gate *admissionGate
	if cfg.MaxConcurrent > 0 {
		gate = newAdmissionGate(cfg.MaxConcurrent)
	}

	return &Orchestrator{
		cfg:      cfg,
		registry: reg,
		selector: &selector{registry: reg, oracle: cfg.Oracle},
		metrics:  store,
		emitter:  NewEventEmitter(cfg.EventBufferSize),
		gate:     gate,
		adapters: make(map[string]WorkerAdapter),
		breakers: make(map[string]*resilience.CircuitBreaker),
	}
}

// RegisterWorker registers a worker capability together with the adapter
// that performs its work.
//
// Registering the identical capability twice is a no-op. A conflicting
// capability for an existing ID returns ErrDuplicateRegistration unless
// replace is set, in which case the new registration supersedes the old.
func (o *Orchestrator) RegisterWorker(cap models.Capability, adapter WorkerAdapter, replace bool) error {
	if o.closed.Load() {
		return ErrShutdown
	}
	if adapter == nil {
		return fmt.Errorf("register worker %s: nil adapter", cap.ID)
	}
	if err := o.registry.Register(cap, replace); err != nil {
		return fmt.Errorf("register worker %s: %w", cap.ID, err)
	}

	o.adaptersMu.Lock()
	o.adapters[cap.ID] = adapter
	o.adaptersMu.Unlock()

	o.emitter.Emit(Event{
		Type:     EventWorkerRegistered,
		WorkerID: cap.ID,
		Message:  fmt.Sprintf("registered with tags %v", cap.ExpertiseTags),
	})
	return nil
}

// Events returns the orchestrator's event stream.
func (o *Orchestrator) Events() <-chan Event {
	return o.emitter.Events()
}

// Registry exposes the capability registry for read-side observability.
func (o *Orchestrator) Registry() *registry.CapabilityRegistry {
	return o.registry
}

// Metrics exposes the metrics store for read-side observability.
func (o *Orchestrator) Metrics() *metrics.Store {
	return o.metrics
}

// BreakerState reports the circuit-breaker state for a worker, for
// health checks. Workers that have never executed report closed.
func (o *Orchestrator) BreakerState(workerID string) resilience.BreakerState {
	o.breakersMu.Lock()
	b, ok := o.breakers[workerID]
	o.breakersMu.Unlock()
	if !ok {
		return resilience.BreakerClosed
	}
	return b.GetState()
}

// Submit runs one task to a terminal state and returns its outcome.
//
// The returned TaskResult is always non-nil once the task has been
// accepted: on failure it carries the selection trace and the failed
// status alongside the non-nil error, so callers keep the reasoning for
// explainability. The error matches exactly one taxonomy sentinel
// (ErrNoCandidate, ErrWorkerNotFound, ErrTimeout, ErrCircuitOpen,
// ErrWorkerFailed, ErrCancelled) under errors.Is.
func (o *Orchestrator) Submit(ctx context.Context, req models.TaskRequest) (*models.TaskResult, error) {
	if o.closed.Load() {
		return nil, ErrShutdown
	}
	o.inflight.Add(1)
	defer o.inflight.Done()
	if o.closed.Load() {
		return nil, ErrShutdown
	}

	if req.Kind != "" && !req.Kind.Valid() {
		return nil, fmt.Errorf("submit: unknown task kind %q", req.Kind)
	}
	if req.Priority != "" && !req.Priority.Valid() {
		return nil, fmt.Errorf("submit: unknown priority %q", req.Priority)
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.CeilingTimeout)
	defer cancel()

	record := &models.TaskRecord{
		ID:        req.ID,
		Request:   req,
		Status:    models.TaskStatusPending,
		StartTime: time.Now(),
	}
	o.emitter.Emit(Event{Type: EventTaskSubmitted, TaskID: req.ID, Status: record.Status})

	// pending -> selecting
	record.Status = models.TaskStatusSelecting
	sel, trace, err := o.selector.Select(ctx, req)
	record.Trace = trace
	if err != nil {
		// No candidate: terminal without execution, no metrics recorded.
		return o.fail(record, "", fmt.Errorf("task %s: %w", req.ID, err))
	}
	if ctx.Err() != nil {
		return o.fail(record, "", o.mapContextErr(req.ID, ctx.Err()))
	}

	record.AssignedWorker = sel.workerID
	record.FinalReasoning = sel.finalReasoning
	record.Confidence = sel.confidence

	o.emitter.Emit(Event{
		Type:     EventWorkerSelected,
		TaskID:   req.ID,
		WorkerID: sel.workerID,
		Message:  sel.finalReasoning,
		Status:   record.Status,
	})

	o.adaptersMu.RLock()
	adapter, ok := o.adapters[sel.workerID]
	o.adaptersMu.RUnlock()
	if !ok {
		// Defensive: capability registered without an adapter.
		return o.fail(record, sel.workerID, fmt.Errorf("task %s: worker %s: %w", req.ID, sel.workerID, ErrWorkerNotFound))
	}

	// Wait for an execution slot; queued tasks are admitted by priority.
	if err := o.gate.acquire(ctx, req.Priority); err != nil {
		return o.fail(record, sel.workerID, o.mapContextErr(req.ID, err))
	}
	defer o.gate.release()

	// selecting -> executing
	record.Status = models.TaskStatusExecuting
	breaker := o.breakerFor(sel.workerID)

	execStart := time.Now()
	var output []byte
	execErr := breaker.Execute(func() error {
		out, err := resilience.ExecuteWithTimeout(ctx, o.cfg.TaskTimeout, func(ctx context.Context) ([]byte, error) {
			return adapter.Call(ctx, req.Input)
		})
		output = out
		return err
	})
	latency := time.Since(execStart)

	// Execution-phase failures are recorded in metrics before being
	// returned, so a worker's degrading reliability stays visible.
	o.metrics.Record(sel.workerID, execErr == nil, latency)

	if execErr != nil {
		if breaker.GetState() == resilience.BreakerOpen {
			o.emitter.Emit(Event{
				Type:     EventBreakerOpened,
				TaskID:   req.ID,
				WorkerID: sel.workerID,
				Message:  "circuit breaker open",
			})
		}
		return o.fail(record, sel.workerID, o.mapExecErr(req.ID, sel.workerID, execErr))
	}

	record.Status = models.TaskStatusCompleted
	record.Result = output
	record.EndTime = time.Now()

	o.emitter.Emit(Event{
		Type:     EventTaskCompleted,
		TaskID:   req.ID,
		WorkerID: sel.workerID,
		Status:   record.Status,
	})
	return o.toResult(record), nil
}

// Shutdown stops accepting new tasks and waits for in-flight tasks to
// reach terminal states, bounded by ctx.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	if !o.closed.CompareAndSwap(false, true) {
		return nil // already shut down
	}

	done := make(chan struct{})
	go func() {
		o.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("[orchestrator] shutdown timed out waiting for in-flight tasks")
		return ctx.Err()
	}

	o.emitter.Close()
	return nil
}

// breakerFor returns the circuit breaker guarding workerID, creating it
// on first use.
func (o *Orchestrator) breakerFor(workerID string) *resilience.CircuitBreaker {
	o.breakersMu.Lock()
	defer o.breakersMu.Unlock()

	b, ok := o.breakers[workerID]
	if !ok {
		b = resilience.NewCircuitBreaker(o.cfg.BreakerThreshold, o.cfg.BreakerResetTimeout)
		o.breakers[workerID] = b
	}
	return b
}

// fail transitions the record to failed and returns the failure snapshot
// alongside the error.
func (o *Orchestrator) fail(record *models.TaskRecord, workerID string, err error) (*models.TaskResult, error) {
	record.Status = models.TaskStatusFailed
	record.Error = err.Error()
	record.EndTime = time.Now()

	o.emitter.Emit(Event{
		Type:     EventTaskFailed,
		TaskID:   record.ID,
		WorkerID: workerID,
		Error:    err,
		Status:   record.Status,
	})
	return o.toResult(record), err
}

// mapExecErr classifies an execution failure into the error taxonomy.
func (o *Orchestrator) mapExecErr(taskID, workerID string, err error) error {
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return fmt.Errorf("task %s: worker %s: %w", taskID, workerID, ErrCircuitOpen)
	case errors.Is(err, resilience.ErrTimeout):
		return fmt.Errorf("task %s: worker %s: %w", taskID, workerID, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return o.mapContextErr(taskID, err)
	default:
		return fmt.Errorf("task %s: worker %s: %w: %w", taskID, workerID, ErrWorkerFailed, err)
	}
}

// mapContextErr classifies a context failure: the ceiling deadline maps
// to ErrTimeout, caller cancellation to ErrCancelled.
func (o *Orchestrator) mapContextErr(taskID string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("task %s: ceiling elapsed: %w", taskID, ErrTimeout)
	}
	return fmt.Errorf("task %s: %w", taskID, ErrCancelled)
}

// toResult builds the immutable snapshot handed back to the caller.
func (o *Orchestrator) toResult(record *models.TaskRecord) *models.TaskResult {
	trace := make([]models.ReasoningStep, len(record.Trace))
	copy(trace, record.Trace)

	output := make([]byte, len(record.Result))
	copy(output, record.Result)
	if record.Result == nil {
		output = nil
	}

	return &models.TaskResult{
		TaskID:         record.ID,
		WorkerID:       record.AssignedWorker,
		Status:         record.Status,
		Output:         output,
		Trace:          trace,
		FinalReasoning: record.FinalReasoning,
		Confidence:     record.Confidence,
		Duration:       record.EndTime.Sub(record.StartTime),
	}
}
