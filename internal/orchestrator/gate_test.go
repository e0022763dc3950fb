package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/voxroute/voxroute/pkg/models"
)

func TestAdmissionGate_NilAdmitsEverything(t *testing.T) {
	var g *admissionGate
	for i := 0; i < 100; i++ {
		if err := g.acquire(context.Background(), models.PriorityLow); err != nil {
			t.Fatalf("nil gate rejected acquire: %v", err)
		}
	}
	g.release() // must not panic
}

func TestAdmissionGate_BoundsConcurrency(t *testing.T) {
	g := newAdmissionGate(2)

	ctx := context.Background()
	if err := g.acquire(ctx, models.PriorityMedium); err != nil {
		t.Fatalf("acquire 1: %v", err)
	}
	if err := g.acquire(ctx, models.PriorityMedium); err != nil {
		t.Fatalf("acquire 2: %v", err)
	}

	// Third acquire must block until a release.
	third := make(chan error, 1)
	go func() {
		third <- g.acquire(ctx, models.PriorityMedium)
	}()

	select {
	case err := <-third:
		t.Fatalf("third acquire returned %v before any release", err)
	case <-time.After(50 * time.Millisecond):
	}

	g.release()
	select {
	case err := <-third:
		if err != nil {
			t.Fatalf("third acquire after release: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("third acquire did not unblock after release")
	}
}

func TestAdmissionGate_PriorityOrdering(t *testing.T) {
	g := newAdmissionGate(1)
	ctx := context.Background()

	if err := g.acquire(ctx, models.PriorityMedium); err != nil {
		t.Fatalf("initial acquire: %v", err)
	}

	// Queue a low-priority waiter first, then a critical one. The
	// critical waiter must be admitted first despite arriving later.
	order := make(chan string, 2)
	var queued sync.WaitGroup

	queued.Add(1)
	go func() {
		queued.Done()
		if err := g.acquire(ctx, models.PriorityLow); err != nil {
			t.Errorf("low acquire: %v", err)
			return
		}
		order <- "low"
		g.release()
	}()
	queued.Wait()
	waitForWaiters(t, g, 1)

	queued.Add(1)
	go func() {
		queued.Done()
		if err := g.acquire(ctx, models.PriorityCritical); err != nil {
			t.Errorf("critical acquire: %v", err)
			return
		}
		order <- "critical"
		g.release()
	}()
	queued.Wait()
	waitForWaiters(t, g, 2)

	g.release()

	first := <-order
	second := <-order
	if first != "critical" || second != "low" {
		t.Errorf("admission order = [%s, %s], want [critical, low]", first, second)
	}
}

func TestAdmissionGate_FIFOWithinPriority(t *testing.T) {
	g := newAdmissionGate(1)
	ctx := context.Background()

	if err := g.acquire(ctx, models.PriorityMedium); err != nil {
		t.Fatalf("initial acquire: %v", err)
	}

	const n = 5
	order := make(chan int, n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			if err := g.acquire(ctx, models.PriorityMedium); err != nil {
				t.Errorf("waiter %d: %v", i, err)
				return
			}
			order <- i
			g.release()
		}()
		waitForWaiters(t, g, i+1)
	}

	g.release()
	for want := 0; want < n; want++ {
		if got := <-order; got != want {
			t.Fatalf("admission position %d went to waiter %d", want, got)
		}
	}
}

func TestAdmissionGate_CancelWhileWaiting(t *testing.T) {
	g := newAdmissionGate(1)

	if err := g.acquire(context.Background(), models.PriorityMedium); err != nil {
		t.Fatalf("initial acquire: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- g.acquire(ctx, models.PriorityMedium)
	}()
	waitForWaiters(t, g, 1)

	cancel()
	select {
	case err := <-errc:
		if err != context.Canceled {
			t.Fatalf("acquire after cancel = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled acquire did not return")
	}

	// The slot released after cancellation must not be lost to the
	// abandoned waiter.
	g.release()
	if err := g.acquire(context.Background(), models.PriorityMedium); err != nil {
		t.Fatalf("acquire after cancelled waiter: %v", err)
	}
}

// waitForWaiters blocks until the gate's queue reaches n waiters.
func waitForWaiters(t *testing.T, g *admissionGate, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		g.mu.Lock()
		queued := g.waiting.Len()
		g.mu.Unlock()
		if queued >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d queued waiters", n)
}
