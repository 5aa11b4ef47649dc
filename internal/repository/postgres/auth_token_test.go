package postgres_test

import (
	"context"
	"testing"
	"time"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthTokenRepository(t *testing.T) {
	store, mock := newMockDB(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	t.Run("FindByToken", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM auth_tokens WHERE token = \\$1 AND type = \\$2").
			WithArgs("abc", "password_reset").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "token", "type", "expires_at", "created_at"}).
				AddRow("t-1", "tech@example.com", "abc", "password_reset", now.Add(time.Hour), now))

		tok, err := store.AuthTokenRepository.FindByToken(ctx, "abc", domain.AuthTokenPasswordReset)
		require.NoError(t, err)
		assert.Equal(t, "tech@example.com", tok.Email)
		assert.Equal(t, domain.AuthTokenPasswordReset, tok.Type)
	})

	t.Run("FindByTokenUnknown", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM auth_tokens").
			WithArgs("nope", "password_reset").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "token", "type", "expires_at", "created_at"}))

		_, err := store.AuthTokenRepository.FindByToken(ctx, "nope", domain.AuthTokenPasswordReset)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM auth_tokens WHERE expires_at <= \\$1").
			WithArgs(now).
			WillReturnResult(sqlmock.NewResult(0, 4))

		n, err := store.AuthTokenRepository.DeleteExpired(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
