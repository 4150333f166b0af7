// Package scheduler drives the periodic jobs: the alert evaluation tick and
// the digest sweep.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cryptosden/backend/internal/service"
)

// Config holds the scheduler configuration
type Config struct {
	// Interval between evaluation ticks
	Interval time.Duration
	// Timeout is the maximum duration for one evaluation cycle
	Timeout time.Duration
	// DigestSweep is how often due digests are checked for
	DigestSweep time.Duration
	// Enabled determines if the scheduler should run
	Enabled bool
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Interval:    time.Minute,
		Timeout:     50 * time.Second,
		DigestSweep: 5 * time.Minute,
		Enabled:     true,
	}
}

// Scheduler manages the evaluation and digest jobs
type Scheduler struct {
	cron       *cron.Cron
	evaluation *service.EvaluationService
	digests    *service.DigestService
	config     Config
	logger     *slog.Logger
	evalEntry  cron.EntryID
}

// New creates a new Scheduler instance
func New(cfg Config, evaluation *service.EvaluationService, digests *service.DigestService, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		evaluation: evaluation,
		digests:    digests,
		config:     cfg,
		logger:     logger,
	}
}

// Start begins the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info("Scheduler is disabled, skipping start")
		return nil
	}

	evalEntry, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.config.Interval), func() {
		s.runEvaluationJob()
	})
	if err != nil {
		return err
	}
	s.evalEntry = evalEntry

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.config.DigestSweep), func() {
		s.runDigestJob()
	}); err != nil {
		return err
	}

	s.cron.Start()

	s.logger.Info("Scheduler started",
		slog.Duration("interval", s.config.Interval),
		slog.Duration("digest_sweep", s.config.DigestSweep),
		slog.Duration("timeout", s.config.Timeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("Stopping scheduler...")
	return s.cron.Stop()
}

// RunNow triggers an immediate evaluation cycle (useful for manual triggers)
func (s *Scheduler) RunNow() {
	go s.runEvaluationJob()
}

// runEvaluationJob executes one evaluation cycle. An already-running cycle
// means the tick fired faster than evaluation finishes; the tick is skipped,
// never queued.
func (s *Scheduler) runEvaluationJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Info("Starting evaluation cycle",
		slog.Time("start_time", startTime),
	)

	cycle, err := s.evaluation.RunCycle(ctx)
	duration := time.Since(startTime)

	if err != nil {
		if errors.Is(err, service.ErrCycleRunning) {
			s.logger.Warn("Previous evaluation cycle still running, tick skipped")
			return
		}
		s.logger.Error("Evaluation cycle failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", duration),
		)
		return
	}

	s.logger.Info("Evaluation cycle completed successfully",
		slog.Int("evaluated", cycle.Evaluated),
		slog.Int("triggered", cycle.Triggered),
		slog.Int("dispatched", cycle.Dispatched),
		slog.Duration("duration", duration),
	)
}

// runDigestJob flushes due daily/weekly digests.
func (s *Scheduler) runDigestJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	sent, err := s.digests.FlushDue(ctx)
	if err != nil {
		s.logger.Error("Digest sweep failed",
			slog.String("error", err.Error()),
		)
		return
	}

	if sent > 0 {
		s.logger.Info("Digest sweep completed",
			slog.Int("digests_sent", sent),
		)
	}
}

// GetNextRunTime returns the next scheduled evaluation time
func (s *Scheduler) GetNextRunTime() time.Time {
	if s.evalEntry == 0 {
		return time.Time{}
	}
	entry := s.cron.Entry(s.evalEntry)
	return entry.Next
}

// GetLastRunTime returns the last evaluation time
func (s *Scheduler) GetLastRunTime() time.Time {
	if s.evalEntry == 0 {
		return time.Time{}
	}
	entry := s.cron.Entry(s.evalEntry)
	return entry.Prev
}

// IsRunning returns true if the scheduler is running
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
