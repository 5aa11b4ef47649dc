package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/repository"

	"github.com/google/uuid"
)

const userColumns = `id, email, name, department, password_hash, role, status, blocked_until, email_verified_at, created_at, updated_at`

type userRepository struct {
	db repository.DBTX
}

func NewUserRepository(db repository.DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var role, status string
	var blockedUntil, verifiedAt sql.NullTime
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Department, &u.PasswordHash, &role, &status, &blockedUntil, &verifiedAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if u.Role, err = domain.ParseRole(role); err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	if u.Status, err = domain.ParseUserStatus(status); err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	u.BlockedUntil = nullTimePtr(blockedUntil)
	u.EmailVerifiedAt = nullTimePtr(verifiedAt)
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	query := `INSERT INTO users (` + userColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Email, u.Name, u.Department, u.PasswordHash, u.Role, u.Status, u.BlockedUntil, u.EmailVerifiedAt, u.CreatedAt, u.UpdatedAt)
	return mapError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []any
	if role != nil {
		query += ` WHERE role = $1`
		args = append(args, *role)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Update writes profile fields and status. Role and password are not touched.
func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email = $1, name = $2, department = $3, status = $4, updated_at = $5 WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query, u.Email, u.Name, u.Department, u.Status, u.UpdatedAt, u.ID)
	if err != nil {
		return mapError(err)
	}
	return expectOneRow(res)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string, now time.Time) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, passwordHash, now, id)
	if err != nil {
		return mapError(err)
	}
	return expectOneRow(res)
}

// MarkEmailVerified stamps the first verification only; a repeated call keeps
// the original time.
func (r *userRepository) MarkEmailVerified(ctx context.Context, email string, now time.Time) error {
	query := `UPDATE users SET email_verified_at = COALESCE(email_verified_at, $1), updated_at = $1
	          WHERE LOWER(email) = LOWER($2)`
	res, err := r.db.ExecContext(ctx, query, now, email)
	if err != nil {
		return mapError(err)
	}
	return expectOneRow(res)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return expectOneRow(res)
}

func (r *userRepository) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n)
	return n, mapError(err)
}

func (r *userRepository) SetBlockedUntil(ctx context.Context, id string, until, now time.Time) error {
	query := `UPDATE users SET blocked_until = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, until, now, id)
	if err != nil {
		return mapError(err)
	}
	return expectOneRow(res)
}

// ClearBlockedUntil only clears a block that has already elapsed, so a block
// written concurrently for a later time survives.
func (r *userRepository) ClearBlockedUntil(ctx context.Context, id string, now time.Time) error {
	query := `UPDATE users SET blocked_until = NULL, updated_at = $1
	          WHERE id = $2 AND blocked_until IS NOT NULL AND blocked_until <= $1`
	_, err := r.db.ExecContext(ctx, query, now, id)
	return mapError(err)
}

func (r *userRepository) ReleaseElapsedBlocks(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE users SET blocked_until = NULL, updated_at = $1
	          WHERE blocked_until IS NOT NULL AND blocked_until <= $1`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected()
}
