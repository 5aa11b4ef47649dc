package service

import (
	"context"
	"time"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/security"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*security.SessionClaims, string, error)
	CheckBlocked(ctx context.Context, email string) BlockStatus
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	CheckVerified(ctx context.Context, email string) bool
}

type WorkSessionService interface {
	StartWorkSession(ctx context.Context, technicianID, projectID string) (*domain.WorkSession, error)
	EndWorkSession(ctx context.Context, technicianID, sessionID string) (*domain.WorkSession, error)
	CurrentWorkSession(ctx context.Context, technicianID string) (*domain.WorkSession, error)
}

type LocationService interface {
	RecordLocation(ctx context.Context, technicianID string, in LocationInput) (*domain.Location, error)
	LiveLocations(ctx context.Context) ([]domain.LiveLocation, error)
}

type ProjectService interface {
	ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	CreateProject(ctx context.Context, in ProjectInput) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, in ProjectInput) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
	ListAssignedProjects(ctx context.Context, technicianID string) ([]domain.Project, error)
	UpdateProjectStatus(ctx context.Context, technicianID, projectID string, status domain.ProjectStatus) (*domain.Project, error)
}

type UserService interface {
	ListUsers(ctx context.Context, role *domain.Role) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type DashboardService interface {
	Metrics(ctx context.Context) (*domain.DashboardMetrics, error)
}

// SessionValidator re-checks token claims against the user store.
type SessionValidator interface {
	Validate(ctx context.Context, claims *security.SessionClaims) error
}

// MaintenanceService backs the housekeeping cron jobs.
type MaintenanceService interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
	ReleaseElapsedBlocks(ctx context.Context) (int64, error)
}

type EmailService interface {
	SendPasswordReset(ctx context.Context, email, name, resetLink string) error
	SendEmailVerification(ctx context.Context, email, name, verifyLink string) error
}

// PushService delivers operator alerts. Delivery is best effort.
type PushService interface {
	SendLockoutAlert(ctx context.Context, technician *domain.User, sessionID string, blockedUntil time.Time) error
}
