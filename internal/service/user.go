package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fieldops-backend/internal/clock"
	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/repository"
	"fieldops-backend/internal/security"
)

type CreateUserInput struct {
	Email      string
	Password   string
	Name       string
	Department string
	Role       domain.Role
}

// UpdateUserInput has no role field; roles are fixed at creation.
type UpdateUserInput struct {
	Name       *string
	Department *string
	Status     *domain.UserStatus
	Password   *string
}

type userService struct {
	users  repository.UserRepository
	hasher security.PasswordHasher
	clock  clock.Clock
}

func NewUserService(users repository.UserRepository, hasher security.PasswordHasher, c clock.Clock) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
		clock:  c,
	}
}

func (s *userService) ListUsers(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	users, err := s.users.List(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// CreateUser provisions a technician or administrator. CEO accounts cannot be
// created through the API.
func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	logger.EnterMethod("userService.CreateUser", "role", in.Role)

	switch in.Role {
	case domain.RoleTechnician, domain.RoleAdmin:
	case domain.RoleCEO:
		return nil, ErrForbidden
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, in.Role)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
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
	u := &domain.User{
		Email:        email,
		Name:         name,
		Department:   strings.TrimSpace(in.Department),
		PasswordHash: hash,
		Role:         in.Role,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		logger.ExitMethodWithError("userService.CreateUser", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.ExitMethod("userService.CreateUser", "userID", u.ID)
	return u, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error) {
	if in.Password != nil {
		if err := validatePassword(*in.Password); err != nil {
			return nil, err
		}
	}
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		u.Name = name
	}
	if in.Department != nil {
		u.Department = strings.TrimSpace(*in.Department)
	}
	if in.Status != nil {
		if _, err := domain.ParseUserStatus(string(*in.Status)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		u.Status = *in.Status
	}

	now := s.clock.Now()
	u.UpdatedAt = now
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.users.UpdatePassword(ctx, u.ID, hash, now); err != nil {
			return nil, fmt.Errorf("failed to update password: %w", err)
		}
		u.PasswordHash = hash
	}
	return u, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrUserNotFound
		case errors.Is(err, repository.ErrReferenced):
			return ErrUserInUse
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	logger.Info("User deleted", "userID", id)
	return nil
}
