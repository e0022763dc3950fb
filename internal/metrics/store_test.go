package metrics

import (
	"math"
	"sync"
	"testing"
	"time"
)

func TestRecord_CountersAndSuccessRate(t *testing.T) {
	s := NewStore()

	s.Record("w1", true, 100*time.Millisecond)
	s.Record("w1", true, 200*time.Millisecond)
	s.Record("w1", false, 300*time.Millisecond)

	m := s.Get("w1")
	if m.TotalTasks != 3 {
		t.Errorf("TotalTasks = %d, want 3", m.TotalTasks)
	}
	if m.CompletedTasks != 2 || m.FailedTasks != 1 {
		t.Errorf("Completed/Failed = %d/%d, want 2/1", m.CompletedTasks, m.FailedTasks)
	}
	if math.Abs(m.SuccessRate-2.0/3.0) > 1e-9 {
		t.Errorf("SuccessRate = %v, want 2/3", m.SuccessRate)
	}
	if m.LastUpdated.IsZero() {
		t.Error("LastUpdated should be set")
	}
}

func TestRecord_IncrementalMean(t *testing.T) {
	s := NewStore()

	// 100ms, 200ms, 300ms -> mean 200ms.
	s.Record("w1", true, 100*time.Millisecond)
	s.Record("w1", true, 200*time.Millisecond)
	s.Record("w1", true, 300*time.Millisecond)

	m := s.Get("w1")
	if math.Abs(m.AverageResponseTimeMs-200) > 1e-9 {
		t.Errorf("AverageResponseTimeMs = %v, want 200", m.AverageResponseTimeMs)
	}
}

func TestGet_UnknownWorkerZeroValues(t *testing.T) {
	s := NewStore()

	m := s.Get("never-seen")
	if m.WorkerID != "never-seen" {
		t.Errorf("WorkerID = %q", m.WorkerID)
	}
	if m.TotalTasks != 0 || m.SuccessRate != 0 || m.AverageResponseTimeMs != 0 {
		t.Errorf("expected zero-value metrics, got %+v", m)
	}
}

func TestGetAll_ReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Record("w1", true, time.Millisecond)

	snapshot := s.GetAll()
	if len(snapshot) != 1 {
		t.Fatalf("snapshot size = %d, want 1", len(snapshot))
	}

	// Mutating the snapshot must not affect the store.
	m := snapshot["w1"]
	m.TotalTasks = 999
	snapshot["w1"] = m

	if got := s.Get("w1").TotalTasks; got != 1 {
		t.Errorf("store TotalTasks = %d after snapshot mutation, want 1", got)
	}
}

func TestRecord_ConcurrentNoLostUpdates(t *testing.T) {
	s := NewStore()

	const goroutines = 16
	const perGoroutine = 250

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				// Even goroutines record successes, odd record failures.
				s.Record("w1", g%2 == 0, 10*time.Millisecond)
			}
		}(g)
	}
	wg.Wait()

	m := s.Get("w1")
	want := int64(goroutines * perGoroutine)
	if m.TotalTasks != want {
		t.Errorf("TotalTasks = %d, want %d", m.TotalTasks, want)
	}
	if m.CompletedTasks != want/2 || m.FailedTasks != want/2 {
		t.Errorf("Completed/Failed = %d/%d, want %d/%d",
			m.CompletedTasks, m.FailedTasks, want/2, want/2)
	}
	if m.CompletedTasks+m.FailedTasks != m.TotalTasks {
		t.Error("completed + failed must equal total")
	}
}

func TestRecord_ConcurrentAcrossWorkers(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	workers := []string{"w1", "w2", "w3", "w4"}
	for _, id := range workers {
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					s.Record(id, true, time.Millisecond)
				}
			}(id)
		}
	}
	wg.Wait()

	for _, id := range workers {
		if got := s.Get(id).TotalTasks; got != 400 {
			t.Errorf("worker %s TotalTasks = %d, want 400", id, got)
		}
	}
}

func TestReset(t *testing.T) {
	s := NewStore()
	s.Record("w1", true, time.Millisecond)

	s.Reset()

	if got := s.Get("w1").TotalTasks; got != 0 {
		t.Errorf("TotalTasks after Reset = %d, want 0", got)
	}
	if len(s.GetAll()) != 0 {
		t.Error("GetAll should be empty after Reset")
	}
}
