package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fieldops-backend/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup or guarded update matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrActiveSessionExists is returned when a technician already has an
	// active work session and another one is inserted.
	ErrActiveSessionExists = errors.New("technician already has an active work session")
	// ErrDuplicate is returned for unique violations other than the active session index.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenced is returned when a delete is blocked by a foreign key.
	ErrReferenced = errors.New("record is still referenced")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, role *domain.Role) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string, now time.Time) error
	MarkEmailVerified(ctx context.Context, email string, now time.Time) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role domain.Role) (int, error)

	// Login block
	SetBlockedUntil(ctx context.Context, id string, until, now time.Time) error
	ClearBlockedUntil(ctx context.Context, id string, now time.Time) error
	ReleaseElapsedBlocks(ctx context.Context, now time.Time) (int64, error)
}

type WorkSessionRepository interface {
	// FindActiveByTechnician returns the technician's active session with its
	// most recent location and project summary attached, or ErrNotFound.
	FindActiveByTechnician(ctx context.Context, technicianID string) (*domain.WorkSession, error)
	GetByID(ctx context.Context, id string) (*domain.WorkSession, error)
	Create(ctx context.Context, session *domain.WorkSession) error
	// CloseActive ends the session only if it belongs to technicianID and is
	// still active. Zero matching rows yields ErrNotFound.
	CloseActive(ctx context.Context, sessionID, technicianID string, now time.Time) (*domain.WorkSession, error)
}

type LocationRepository interface {
	Create(ctx context.Context, location *domain.Location) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.Location, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error)
	ListByTechnician(ctx context.Context, technicianID string) ([]domain.Project, error)
	// FindLatestOpenForTechnician returns the most recently created ASSIGNED or
	// IN_PROGRESS project assigned to the technician, or ErrNotFound.
	FindLatestOpenForTechnician(ctx context.Context, technicianID string) (*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type AuthTokenRepository interface {
	Create(ctx context.Context, token *domain.AuthToken) error
	FindByToken(ctx context.Context, token string, tokenType domain.AuthTokenType) (*domain.AuthToken, error)
	Delete(ctx context.Context, id string) error
	DeleteByEmail(ctx context.Context, email string, tokenType domain.AuthTokenType) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// ReportRepository serves the read-only back-office views.
type ReportRepository interface {
	LiveSessions(ctx context.Context) ([]domain.LiveLocation, error)
	DashboardMetrics(ctx context.Context, monthStart, monthEnd, now time.Time) (*domain.DashboardMetrics, error)
}

// TxRepositories are bound to a single transaction.
type TxRepositories struct {
	Users     UserRepository
	Sessions  WorkSessionRepository
	Locations LocationRepository
	Projects  ProjectRepository
	Tokens    AuthTokenRepository
}

// Transactor runs fn in one database transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repos TxRepositories) error) error
}
