// Package scheduler runs a job on a fixed interval. It replaces cron-string
// scheduling with an explicit ticker so tests can drive ticks directly, and
// it serializes executions: a tick that fires while the previous run is
// still in flight is skipped rather than overlapped, which is what keeps
// the reminder sweep from double-sending.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

// Runner drives a Job on a fixed interval.
type Runner struct {
	name     string
	interval time.Duration
	job      Job
	logger   *logrus.Logger

	running atomic.Bool
	wg      sync.WaitGroup
}

// NewRunner builds a runner; Start must be called to begin ticking.
func NewRunner(name string, interval time.Duration, job Job, logger *logrus.Logger) *Runner {
	return &Runner{
		name:     name,
		interval: interval,
		job:      job,
		logger:   logger,
	}
}

// Start launches the tick loop. It returns immediately; the loop stops when
// ctx is cancelled. Call Wait to block until the loop has drained.
func (r *Runner) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Tick(ctx)
			}
		}
	}()
}

// Tick runs the job once unless a previous run is still in flight, in
// which case the tick is skipped.
func (r *Runner) Tick(ctx context.Context) {
	if !r.running.CompareAndSwap(false, true) {
		r.logger.WithField("job", r.name).Warn("previous run still in flight, skipping tick")
		return
	}
	defer r.running.Store(false)

	if err := r.job(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.WithError(err).WithField("job", r.name).Error("scheduled job failed")
	}
}

// Wait blocks until the tick loop has exited after ctx cancellation.
func (r *Runner) Wait() {
	r.wg.Wait()
}
