package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/repository"
)

const verificationTokenTTL = 24 * time.Hour

// VerifyEmail consumes a verification token and stamps the account. Login
// never depends on the stamp.
func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	logger.EnterMethod("authService.VerifyEmail")

	if strings.TrimSpace(token) == "" {
		return ErrInvalidVerificationToken
	}

	record, err := s.tokens.FindByToken(ctx, token, domain.AuthTokenEmailVerification)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidVerificationToken
		}
		logger.ExitMethodWithError("authService.VerifyEmail", err)
		return fmt.Errorf("failed to look up verification token: %w", err)
	}

	now := s.clock.Now()
	if record.ExpiredAt(now) {
		if err := s.tokens.Delete(ctx, record.ID); err != nil {
			logger.Warn("Failed to delete expired verification token", "tokenID", record.ID, "error", err)
		}
		return ErrInvalidVerificationToken
	}

	err = s.tx.WithinTransaction(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Users.MarkEmailVerified(ctx, record.Email, now); err != nil {
			return err
		}
		return repos.Tokens.Delete(ctx, record.ID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidVerificationToken
		}
		logger.ExitMethodWithError("authService.VerifyEmail", err, "tokenID", record.ID)
		return fmt.Errorf("failed to verify email: %w", err)
	}

	logger.ExitMethod("authService.VerifyEmail", "tokenID", record.ID)
	return nil
}

// ResendVerification mails a fresh link to an unverified account. Unknown and
// already verified addresses get the same nil result.
func (s *authService) ResendVerification(ctx context.Context, email string) error {
	logger.EnterMethod("authService.ResendVerification")

	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.ExitMethodWithError("authService.ResendVerification", err)
		}
		return nil
	}
	if user.EmailVerifiedAt != nil {
		logger.ExitMethod("authService.ResendVerification", "userID", user.ID, "alreadyVerified", true)
		return nil
	}

	token, err := newAuthToken()
	if err != nil {
		logger.ExitMethodWithError("authService.ResendVerification", err, "userID", user.ID)
		return fmt.Errorf("failed to generate verification token: %w", err)
	}

	now := s.clock.Now()
	record := &domain.AuthToken{
		Email:     user.Email,
		Token:     token,
		Type:      domain.AuthTokenEmailVerification,
		ExpiresAt: now.Add(verificationTokenTTL),
		CreatedAt: now,
	}
	err = s.tx.WithinTransaction(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Tokens.DeleteByEmail(ctx, user.Email, domain.AuthTokenEmailVerification); err != nil {
			return err
		}
		return repos.Tokens.Create(ctx, record)
	})
	if err != nil {
		logger.ExitMethodWithError("authService.ResendVerification", err, "userID", user.ID)
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	link := s.baseURL + "/tech/verify-email?token=" + url.QueryEscape(token)
	if err := s.emailSvc.SendEmailVerification(ctx, user.Email, user.DisplayName(), link); err != nil {
		logger.Warn("Verification email not delivered", "userID", user.ID, "error", err)
	}

	logger.ExitMethod("authService.ResendVerification", "userID", user.ID)
	return nil
}

// CheckVerified reports false for unknown addresses and lookup failures.
func (s *authService) CheckVerified(ctx context.Context, email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Warn("Verification lookup failed", "error", err)
		}
		return false
	}
	return user.EmailVerifiedAt != nil
}
