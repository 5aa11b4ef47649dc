package service

import (
	"context"
	"fmt"

	"fieldops-backend/internal/clock"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/repository"
)

type maintenanceService struct {
	users  repository.UserRepository
	tokens repository.AuthTokenRepository
	clock  clock.Clock
}

func NewMaintenanceService(users repository.UserRepository, tokens repository.AuthTokenRepository, c clock.Clock) MaintenanceService {
	return &maintenanceService{users: users, tokens: tokens, clock: c}
}

func (s *maintenanceService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.tokens.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired tokens: %w", err)
	}
	logger.Info("Purged expired auth tokens", "count", n)
	return n, nil
}

// ReleaseElapsedBlocks clears lockouts whose time has passed. It never touches
// work sessions; staleness is only judged at login.
func (s *maintenanceService) ReleaseElapsedBlocks(ctx context.Context) (int64, error) {
	n, err := s.users.ReleaseElapsedBlocks(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to release elapsed blocks: %w", err)
	}
	logger.Info("Released elapsed login blocks", "count", n)
	return n, nil
}
