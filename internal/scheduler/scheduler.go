// Package scheduler runs the periodic offer maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Expirer is satisfied by the offer service.
type Expirer interface {
	ExpireOverdue(ctx context.Context) (int64, error)
}

// Scheduler wraps robfig/cron and owns the expiry job.
type Scheduler struct {
	cron     *cron.Cron
	expirer  Expirer
	schedule string
	logger   *slog.Logger
}

func New(expirer Expirer, schedule string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		expirer:  expirer,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the job, starts the cron loop and runs one pass right away.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", s.schedule)

	go s.RunOnce(ctx)
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	n, err := s.expirer.ExpireOverdue(ctx)
	if err != nil {
		s.logger.Error("offer expiry failed", "error", err)
		return
	}
	s.logger.Debug("offer expiry pass complete", "expired", n)
}
