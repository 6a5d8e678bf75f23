package common

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Give the runner a task and an interval, and start it.
// The task executes right away, and then again each time the interval
// has elapsed since the previous execution finished, so two executions
// never overlap. The runner can only be started once
type Runner struct {
	interval time.Duration
	task     func(context.Context)
	once     sync.Once
	running  atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRunner(interval time.Duration, task func(context.Context)) *Runner {
	return &Runner{interval: interval, task: task}
}

// Start the runner in its own goroutine. Report if this call
// is the one that actually started it
func (r *Runner) Start(ctx context.Context) bool {
	started := false
	r.once.Do(func() {
		ctx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		r.mu.Lock()
		r.cancel = cancel
		r.done = done
		r.mu.Unlock()
		r.running.Store(true)
		started = true
		go r.loop(ctx, done)
	})
	return started
}

// Stop the runner and wait for the current execution to finish.
// A runner that was never started cannot be started afterwards
func (r *Runner) Stop() {
	r.once.Do(func() {})
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *Runner) Running() bool {
	return r.running.Load()
}

func (r *Runner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer r.running.Store(false)
	for {
		r.execute(ctx)
		timer := time.NewTimer(r.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (r *Runner) execute(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Msg(fmt.Sprintf("Recovered from panic in repeating task: %v", rec))
		}
	}()
	r.task(ctx)
}
