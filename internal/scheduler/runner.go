package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

type Task func(ctx context.Context) error

// Runner executes a named task once on start and then every interval
// until its context is cancelled. A failed run is logged and the schedule
// continues.
type Runner struct {
	name     string
	interval time.Duration
	task     Task
	logger   *zap.Logger
}

func NewRunner(name string, interval time.Duration, task Task, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{name: name, interval: interval, task: task, logger: logger}
}

// Run blocks until ctx is done and always returns nil, so it can be handed
// to an errgroup without tearing the group down.
func (r *Runner) Run(ctx context.Context) error {
	if r.interval <= 0 {
		r.logger.Warn("scheduler disabled", zap.String("task", r.name))
		return nil
	}
	r.logger.Info("scheduler started", zap.String("task", r.name), zap.Duration("interval", r.interval))

	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("scheduler stopped", zap.String("task", r.name))
			return nil
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	start := time.Now()
	err := r.task(ctx)
	switch {
	case err == nil:
		r.logger.Debug("scheduled task finished", zap.String("task", r.name), zap.Duration("took", time.Since(start)))
	case errors.Is(err, context.Canceled):
	default:
		r.logger.Error("scheduled task failed", zap.String("task", r.name), zap.Error(err))
	}
}
