package postgres

import (
	"context"
	"time"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/repository"

	"github.com/google/uuid"
)

type authTokenRepository struct {
	db repository.DBTX
}

func NewAuthTokenRepository(db repository.DBTX) repository.AuthTokenRepository {
	return &authTokenRepository{db: db}
}

func (r *authTokenRepository) Create(ctx context.Context, t *domain.AuthToken) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	query := `INSERT INTO auth_tokens (id, email, token, type, expires_at, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.Email, t.Token, t.Type, t.ExpiresAt, t.CreatedAt)
	return mapError(err)
}

func (r *authTokenRepository) FindByToken(ctx context.Context, token string, tokenType domain.AuthTokenType) (*domain.AuthToken, error) {
	t := &domain.AuthToken{}
	query := `SELECT id, email, token, type, expires_at, created_at FROM auth_tokens WHERE token = $1 AND type = $2`
	var typ string
	err := r.db.QueryRowContext(ctx, query, token, tokenType).Scan(&t.ID, &t.Email, &t.Token, &typ, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	t.Type = domain.AuthTokenType(typ)
	return t, nil
}

func (r *authTokenRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE id = $1`, id)
	return mapError(err)
}

func (r *authTokenRepository) DeleteByEmail(ctx context.Context, email string, tokenType domain.AuthTokenType) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE LOWER(email) = LOWER($1) AND type = $2`, email, tokenType)
	return mapError(err)
}

func (r *authTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected()
}
