package jobs

import (
	"context"
	"time"

	"fieldops-backend/internal/config"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/service"
)

// jobTimeout bounds a single job execution.
const jobTimeout = 5 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	maintenance service.MaintenanceService
	config      *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(maintenance service.MaintenanceService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		maintenance: maintenance,
		config:      cfg,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	logger.Info("Starting job", "job", jobName)
	jobFunc(ctx)
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every housekeeping job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.ReleaseElapsedBlocks()
	jr.PurgeExpiredTokens()
}
