package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fieldops-backend/internal/clock"
	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/repository"
	"fieldops-backend/internal/security"
	"fieldops-backend/internal/utils"
)

// BlockStatus is the public answer to "am I locked out?".
type BlockStatus struct {
	Blocked      bool       `json:"blocked"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
}

type RegisterInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Department string
}

type authService struct {
	users    repository.UserRepository
	sessions repository.WorkSessionRepository
	tokens   repository.AuthTokenRepository
	tx       repository.Transactor
	hasher   security.PasswordHasher
	tokenMgr security.TokenManager
	emailSvc EmailService
	pushSvc  PushService
	clock    clock.Clock
	baseURL  string
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.WorkSessionRepository,
	tokens repository.AuthTokenRepository,
	tx repository.Transactor,
	hasher security.PasswordHasher,
	tokenMgr security.TokenManager,
	emailSvc EmailService,
	pushSvc PushService,
	c clock.Clock,
	baseURL string,
) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		tx:       tx,
		hasher:   hasher,
		tokenMgr: tokenMgr,
		emailSvc: emailSvc,
		pushSvc:  pushSvc,
		clock:    c,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Login authenticates a user and, for technicians, applies the session
// lockout policy before issuing a token.
func (s *authService) Login(ctx context.Context, email, password string) (*security.SessionClaims, string, error) {
	logger.EnterMethod("authService.Login")

	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.ExitMethod("authService.Login", "result", "unknown_email")
			return nil, "", ErrInvalidCredentials
		}
		logger.ExitMethodWithError("authService.Login", err)
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		logger.ExitMethod("authService.Login", "userID", user.ID, "result", "bad_password")
		return nil, "", ErrInvalidCredentials
	}

	if user.Status != domain.UserStatusActive {
		logger.ExitMethod("authService.Login", "userID", user.ID, "result", "inactive")
		return nil, "", ErrAccountInactive
	}

	if user.Role == domain.RoleTechnician {
		if err := s.enforceSessionPolicy(ctx, user); err != nil {
			if !errors.Is(err, ErrAccountBlocked) {
				logger.ExitMethodWithError("authService.Login", err, "userID", user.ID)
			}
			return nil, "", err
		}
	}

	token, err := s.tokenMgr.GenerateSessionToken(user.ID, user.Role)
	if err != nil {
		logger.ExitMethodWithError("authService.Login", err, "userID", user.ID)
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	logger.ExitMethod("authService.Login", "userID", user.ID, "role", user.Role)
	return &security.SessionClaims{UserID: user.ID, Role: user.Role}, token, nil
}

// enforceSessionPolicy applies the block and staleness rules. now is read once
// so every comparison in one login sees the same instant.
func (s *authService) enforceSessionPolicy(ctx context.Context, user *domain.User) error {
	now := s.clock.Now()

	if user.BlockedUntil != nil {
		if user.IsBlockedAt(now) {
			logger.PolicyEvent("login_refused_blocked", user.ID, "blocked_until", *user.BlockedUntil)
			return ErrAccountBlocked
		}
		if err := s.users.ClearBlockedUntil(ctx, user.ID, now); err != nil {
			return fmt.Errorf("failed to clear elapsed block: %w", err)
		}
		logger.PolicyEvent("block_elapsed_cleared", user.ID)
	}

	session, err := s.sessions.FindActiveByTechnician(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up active session: %w", err)
	}

	lastActivity := utils.LastActivity(session)
	if !utils.IsStale(lastActivity, now) {
		return nil
	}

	until := utils.NextSixAM(now)
	err = s.tx.WithinTransaction(ctx, func(repos repository.TxRepositories) error {
		if _, err := repos.Sessions.CloseActive(ctx, session.ID, user.ID, now); err != nil {
			// Already closed by a concurrent request; the block still applies.
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}
		return repos.Users.SetBlockedUntil(ctx, user.ID, until, now)
	})
	if err != nil {
		return fmt.Errorf("failed to apply stale session lockout: %w", err)
	}

	logger.PolicyEvent("stale_session_lockout", user.ID,
		"session_id", session.ID,
		"last_activity", lastActivity,
		"blocked_until", until,
	)
	if err := s.pushSvc.SendLockoutAlert(ctx, user, session.ID, until); err != nil {
		logger.Warn("Lockout alert not delivered", "technician_id", user.ID, "error", err)
	}
	return ErrAccountBlocked
}

// CheckBlocked never reveals whether an email is registered.
func (s *authService) CheckBlocked(ctx context.Context, email string) BlockStatus {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Warn("Block status lookup failed", "error", err)
		}
		return BlockStatus{}
	}
	if user.Role != domain.RoleTechnician || !user.IsBlockedAt(s.clock.Now()) {
		return BlockStatus{}
	}
	until := *user.BlockedUntil
	return BlockStatus{Blocked: true, BlockedUntil: &until}
}

// Register creates an active technician account.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(strings.TrimSpace(in.FirstName) + " " + strings.TrimSpace(in.LastName))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock.Now()
	user := &domain.User{
		Email:        email,
		Name:         name,
		Department:   strings.TrimSpace(in.Department),
		PasswordHash: hash,
		Role:         domain.RoleTechnician,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("Technician registered", "userID", user.ID)
	return user, nil
}
