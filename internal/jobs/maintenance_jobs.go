package jobs

import (
	"context"

	"fieldops-backend/internal/logger"
)

// PurgeExpiredTokens deletes password reset tokens past their expiry
func (jr *JobRunner) PurgeExpiredTokens() {
	jr.runWithRecovery("PurgeExpiredTokens", func(ctx context.Context) {
		n, err := jr.maintenance.PurgeExpiredTokens(ctx)
		if err != nil {
			logger.Error("Failed to purge expired tokens", "error", err)
			return
		}
		logger.Info("Expired tokens purged", "count", n)
	})
}

// ReleaseElapsedBlocks clears blocked_until on technicians whose lockout has
// passed. Login already ignores an elapsed block; this keeps the column and
// the dashboard count honest.
func (jr *JobRunner) ReleaseElapsedBlocks() {
	jr.runWithRecovery("ReleaseElapsedBlocks", func(ctx context.Context) {
		n, err := jr.maintenance.ReleaseElapsedBlocks(ctx)
		if err != nil {
			logger.Error("Failed to release elapsed blocks", "error", err)
			return
		}
		logger.Info("Elapsed blocks released", "count", n)
	})
}
