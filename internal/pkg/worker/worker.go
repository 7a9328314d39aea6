package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"cnkcrm/internal/observability/metrics"
)

// Config holds the schedule of one background job.
type Config struct {
	Name     string
	Delay    time.Duration // before the first run
	Interval time.Duration // between runs
	Enabled  bool
}

// Func is one run of a job.
type Func func(ctx context.Context) error

// Job is a running schedule.
type Job struct {
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Stop ends the schedule and waits for a run in progress to finish.
func (j *Job) Stop() {
	j.stopOnce.Do(func() { close(j.stopCh) })
	<-j.done
}

// Done is closed once the schedule has exited.
func (j *Job) Done() <-chan struct{} { return j.done }

// Schedule starts a background goroutine that runs fn after cfg.Delay and
// then every cfg.Interval until ctx ends or Stop is called. A failed run is
// logged and does not stop the schedule. A disabled config returns nil.
func Schedule(ctx context.Context, log *zap.Logger, cfg Config, fn Func) *Job {
	if !cfg.Enabled {
		log.Info("worker disabled", zap.String("worker", cfg.Name))
		return nil
	}
	log = log.With(zap.String("worker", cfg.Name))

	j := &Job{stopCh: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(j.done)

		delay := time.NewTimer(cfg.Delay)
		defer delay.Stop()
		select {
		case <-delay.C:
			RunOnce(ctx, log, cfg.Name, fn)
		case <-j.stopCh:
			log.Info("worker stopped")
			return
		case <-ctx.Done():
			log.Info("worker stopped (context done)")
			return
		}

		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				RunOnce(ctx, log, cfg.Name, fn)
			case <-j.stopCh:
				log.Info("worker stopped")
				return
			case <-ctx.Done():
				log.Info("worker stopped (context done)")
				return
			}
		}
	}()

	log.Info("worker scheduled", zap.Duration("delay", cfg.Delay), zap.Duration("interval", cfg.Interval))
	return j
}

// RunOnce runs fn a single time, recording the outcome.
func RunOnce(ctx context.Context, log *zap.Logger, name string, fn Func) {
	start := time.Now()
	if err := fn(ctx); err != nil {
		metrics.ObserveWorkerTick(name, "error")
		log.Warn("worker run failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return
	}
	metrics.ObserveWorkerTick(name, "ok")
	log.Debug("worker run finished", zap.Duration("took", time.Since(start)))
}
