package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/repository"
)

const resetTokenTTL = time.Hour

// newAuthToken returns 32 random bytes hex encoded.
func newAuthToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ForgotPassword emails a reset link when the account exists. The result is
// the same either way so the endpoint does not reveal which accounts exist.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	logger.EnterMethod("authService.ForgotPassword")

	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.ExitMethodWithError("authService.ForgotPassword", err)
		}
		return nil
	}

	token, err := newAuthToken()
	if err != nil {
		logger.ExitMethodWithError("authService.ForgotPassword", err, "userID", user.ID)
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	now := s.clock.Now()
	record := &domain.AuthToken{
		Email:     user.Email,
		Token:     token,
		Type:      domain.AuthTokenPasswordReset,
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
	}
	err = s.tx.WithinTransaction(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Tokens.DeleteByEmail(ctx, user.Email, domain.AuthTokenPasswordReset); err != nil {
			return err
		}
		return repos.Tokens.Create(ctx, record)
	})
	if err != nil {
		logger.ExitMethodWithError("authService.ForgotPassword", err, "userID", user.ID)
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := s.baseURL + "/tech/reset-password?token=" + url.QueryEscape(token)
	if err := s.emailSvc.SendPasswordReset(ctx, user.Email, user.DisplayName(), link); err != nil {
		// The token stays valid; the user can ask again.
		logger.Warn("Password reset email not delivered", "userID", user.ID, "error", err)
	}

	logger.ExitMethod("authService.ForgotPassword", "userID", user.ID)
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	logger.EnterMethod("authService.ResetPassword")

	if strings.TrimSpace(token) == "" {
		return ErrInvalidResetToken
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	record, err := s.tokens.FindByToken(ctx, token, domain.AuthTokenPasswordReset)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		logger.ExitMethodWithError("authService.ResetPassword", err)
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	now := s.clock.Now()
	if record.ExpiredAt(now) {
		if err := s.tokens.Delete(ctx, record.ID); err != nil {
			logger.Warn("Failed to delete expired reset token", "tokenID", record.ID, "error", err)
		}
		return ErrInvalidResetToken
	}

	user, err := s.users.FindByEmail(ctx, record.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.tx.WithinTransaction(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Users.UpdatePassword(ctx, user.ID, hash, now); err != nil {
			return err
		}
		return repos.Tokens.Delete(ctx, record.ID)
	})
	if err != nil {
		logger.ExitMethodWithError("authService.ResetPassword", err, "userID", user.ID)
		return fmt.Errorf("failed to reset password: %w", err)
	}

	logger.ExitMethod("authService.ResetPassword", "userID", user.ID)
	return nil
}
