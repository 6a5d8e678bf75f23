package common

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunnerRepeatsTask(t *testing.T) {
	var count atomic.Int32
	executed := make(chan struct{}, 10)
	r := NewRunner(time.Millisecond, func(ctx context.Context) {
		count.Add(1)
		executed <- struct{}{}
	})
	if !r.Start(context.Background()) {
		t.Fatalf("expected first Start to start the runner")
	}
	defer r.Stop()

	for i := 0; i < 3; i++ {
		select {
		case <-executed:
		case <-time.After(time.Second):
			t.Fatalf("task executed %d times, expected at least 3", count.Load())
		}
	}
}

func TestRunnerStartsOnlyOnce(t *testing.T) {
	var active, maxActive atomic.Int32
	r := NewRunner(time.Millisecond, func(ctx context.Context) {
		n := active.Add(1)
		if n > maxActive.Load() {
			maxActive.Store(n)
		}
		time.Sleep(2 * time.Millisecond)
		active.Add(-1)
	})
	if !r.Start(context.Background()) {
		t.Fatalf("expected first Start to start the runner")
	}
	if r.Start(context.Background()) {
		t.Fatalf("second Start should not start the runner again")
	}
	time.Sleep(20 * time.Millisecond)
	r.Stop()

	if got := maxActive.Load(); got != 1 {
		t.Fatalf("expected executions to never overlap, saw %d at once", got)
	}
	if r.Running() {
		t.Fatalf("runner still reports running after Stop")
	}
}

func TestRunnerRecoversFromPanic(t *testing.T) {
	var count atomic.Int32
	executed := make(chan struct{}, 10)
	r := NewRunner(time.Millisecond, func(ctx context.Context) {
		executed <- struct{}{}
		if count.Add(1) == 1 {
			panic("boom")
		}
	})
	r.Start(context.Background())
	defer r.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-executed:
		case <-time.After(time.Second):
			t.Fatalf("runner did not survive a panicking task")
		}
	}
}

func TestRunnerStopBeforeStart(t *testing.T) {
	r := NewRunner(time.Millisecond, func(ctx context.Context) {
		t.Errorf("task should never run")
	})
	r.Stop()
	if r.Start(context.Background()) {
		t.Fatalf("a stopped runner should not start")
	}
}
