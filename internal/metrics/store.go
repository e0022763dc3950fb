// Package metrics tracks per-worker performance counters that feed back
// into routing observability.
package metrics

import (
	"sync"
	"time"

	"github.com/voxroute/voxroute/pkg/models"
)

// entry holds the live counters for one worker. Each entry carries its
// own mutex so two workers' updates never contend with each other.
type entry struct {
	mu sync.Mutex
	m  models.WorkerMetrics
}

// Store accumulates rolling performance counters per worker.
// Record calls for the same worker are linearizable; calls for different
// workers proceed in parallel.
type Store struct {
	// entries maps worker IDs to their counters.
	entries map[string]*entry
	// mu protects the entries map itself, not the counters.
	mu sync.RWMutex

	now func() time.Time // injectable clock for tests
}

// NewStore creates an empty metrics store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// entryFor returns the entry for workerID, creating it on first use.
func (s *Store) entryFor(workerID string) *entry {
	s.mu.RLock()
	e, ok := s.entries[workerID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.entries[workerID]; ok {
		return e
	}
	e = &entry{m: models.WorkerMetrics{WorkerID: workerID}}
	s.entries[workerID] = e
	return e
}

// Record applies one terminal task outcome to a worker's counters.
// The average response time uses an incremental mean:
// newAvg = oldAvg + (latency - oldAvg) / total.
func (s *Store) Record(workerID string, success bool, latency time.Duration) {
	e := s.entryFor(workerID)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.m.TotalTasks++
	if success {
		e.m.CompletedTasks++
	} else {
		e.m.FailedTasks++
	}
	e.m.SuccessRate = float64(e.m.CompletedTasks) / float64(e.m.TotalTasks)

	latencyMs := float64(latency.Milliseconds())
	e.m.AverageResponseTimeMs += (latencyMs - e.m.AverageResponseTimeMs) / float64(e.m.TotalTasks)
	e.m.LastUpdated = s.now()
}

// Get returns a copy of the counters for workerID. A worker that has
// never been recorded gets zero-value counters.
func (s *Store) Get(workerID string) models.WorkerMetrics {
	s.mu.RLock()
	e, ok := s.entries[workerID]
	s.mu.RUnlock()
	if !ok {
		return models.WorkerMetrics{WorkerID: workerID}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.m
}

// GetAll returns a snapshot copy of every worker's counters.
func (s *Store) GetAll() map[string]models.WorkerMetrics {
	s.mu.RLock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	snapshot := make(map[string]models.WorkerMetrics, len(ids))
	for _, id := range ids {
		snapshot[id] = s.Get(id)
	}
	return snapshot
}

// Reset clears all counters. This is an explicit administrative action;
// the orchestrator itself never resets metrics.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*entry)
}

// restore seeds a worker's counters from persisted state. Used by the
// SQLite-backed store on startup; not safe to call once Record traffic
// has started for the worker.
func (s *Store) restore(m models.WorkerMetrics) {
	e := s.entryFor(m.WorkerID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.m = m
}
