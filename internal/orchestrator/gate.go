package orchestrator

import (
	"container/heap"
	"context"
	"sync"

	"github.com/voxroute/voxroute/pkg/models"
)

// waiter is one task blocked on an execution slot.
type waiter struct {
	weight    int
	seq       uint64
	ready     chan struct{}
	index     int
	cancelled bool
}

// waitQueue orders waiters by priority weight, FIFO within a weight.
type waitQueue []*waiter

func (q waitQueue) Len() int { return len(q) }

func (q waitQueue) Less(i, j int) bool {
	if q[i].weight != q[j].weight {
		return q[i].weight > q[j].weight
	}
	return q[i].seq < q[j].seq
}

func (q waitQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *waitQueue) Push(x any) {
	w := x.(*waiter)
	w.index = len(*q)
	*q = append(*q, w)
}

func (q *waitQueue) Pop() any {
	old := *q
	n := len(old)
	w := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return w
}

// admissionGate bounds the number of concurrently executing tasks.
// Tasks waiting for a slot are admitted in priority order (critical
// first), FIFO within the same priority. Priority never preempts a task
// that already holds a slot. A nil gate admits everything immediately.
type admissionGate struct {
	mu      sync.Mutex
	slots   int
	waiting waitQueue
	nextSeq uint64
}

// newAdmissionGate creates a gate with the given number of slots.
func newAdmissionGate(slots int) *admissionGate {
	return &admissionGate{slots: slots}
}

// acquire blocks until an execution slot is available or ctx is done.
func (g *admissionGate) acquire(ctx context.Context, priority models.TaskPriority) error {
	if g == nil {
		return nil
	}

	g.mu.Lock()
	if g.slots > 0 {
		g.slots--
		g.mu.Unlock()
		return nil
	}

	w := &waiter{
		weight: priority.Weight(),
		seq:    g.nextSeq,
		ready:  make(chan struct{}),
	}
	g.nextSeq++
	heap.Push(&g.waiting, w)
	g.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		g.mu.Lock()
		select {
		case <-w.ready:
			// A slot was granted while we were cancelling; hand it back.
			g.releaseLocked()
		default:
			w.cancelled = true
			if w.index >= 0 && w.index < len(g.waiting) && g.waiting[w.index] == w {
				heap.Remove(&g.waiting, w.index)
			}
		}
		g.mu.Unlock()
		return ctx.Err()
	}
}

// release returns a slot, handing it to the highest-priority waiter if
// one exists.
func (g *admissionGate) release() {
	if g == nil {
		return
	}
	g.mu.Lock()
	g.releaseLocked()
	g.mu.Unlock()
}

func (g *admissionGate) releaseLocked() {
	for g.waiting.Len() > 0 {
		w := heap.Pop(&g.waiting).(*waiter)
		if w.cancelled {
			continue
		}
		close(w.ready) // slot transfers directly to the waiter
		return
	}
	g.slots++
}
