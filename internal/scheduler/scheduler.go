package scheduler

import (
	"github.com/robfig/cron/v3"

	"fieldops-backend/internal/jobs"
	"fieldops-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner. Schedules
// are evaluated in the configured business time zone so the block release
// lines up with the 6 AM lockout boundary.
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	c := cron.New(
		cron.WithLocation(jobRunner.Config().Location()),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	// Password reset token cleanup
	_, err := s.cron.AddFunc(cfg.PurgeExpiredTokens, s.jobs.PurgeExpiredTokens)
	if err != nil {
		logger.Error("Failed to register PurgeExpiredTokens job", "error", err)
	}

	// Morning lockout release
	_, err = s.cron.AddFunc(cfg.ReleaseElapsedBlocks, s.jobs.ReleaseElapsedBlocks)
	if err != nil {
		logger.Error("Failed to register ReleaseElapsedBlocks job", "error", err)
	}

	logger.Info("Cron jobs registered", "count", len(s.cron.Entries()))
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has jobs registered
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
