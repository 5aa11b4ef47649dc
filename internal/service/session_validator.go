package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldops-backend/internal/cache"
	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/repository"
	"fieldops-backend/internal/security"
)

type sessionValidator struct {
	users repository.UserRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewSessionValidator checks that a token's user still exists, is active and
// holds the role in the token. Positive answers are cached for ttl.
func NewSessionValidator(users repository.UserRepository, c cache.Cache, ttl time.Duration) SessionValidator {
	if c == nil {
		c = cache.Noop{}
	}
	return &sessionValidator{users: users, cache: c, ttl: ttl}
}

func claimsCacheKey(claims *security.SessionClaims) string {
	return "claims:" + claims.UserID + ":" + string(claims.Role)
}

func (v *sessionValidator) Validate(ctx context.Context, claims *security.SessionClaims) error {
	if claims == nil || claims.UserID == "" {
		return ErrUnauthorized
	}

	key := claimsCacheKey(claims)
	if _, ok, err := v.cache.Get(ctx, key); err != nil {
		logger.Warn("Claims cache read failed", "error", err)
	} else if ok {
		return nil
	}

	user, err := v.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("failed to revalidate session: %w", err)
	}
	if user.Status != domain.UserStatusActive || user.Role != claims.Role {
		logger.Info("Session claims no longer valid", "userID", user.ID, "status", user.Status, "role", user.Role)
		return ErrUnauthorized
	}

	if err := v.cache.Set(ctx, key, "1", v.ttl); err != nil {
		logger.Warn("Claims cache write failed", "error", err)
	}
	return nil
}
