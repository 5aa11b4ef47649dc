package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fieldops-backend/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WithinTransaction(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	until := time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC)
	cols := []string{"id", "technician_id", "project_id", "start_time", "end_time", "is_active"}

	t.Run("CommitsBothWrites", func(t *testing.T) {
		store, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE work_sessions SET is_active = FALSE").
			WithArgs(now, "s-1", "tech-1").
			WillReturnRows(sqlmock.NewRows(cols).AddRow("s-1", "tech-1", "p-1", now.Add(-time.Hour), now, false))
		mock.ExpectExec("UPDATE users SET blocked_until").
			WithArgs(until, now, "tech-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.WithinTransaction(ctx, func(repos repository.TxRepositories) error {
			if _, err := repos.Sessions.CloseActive(ctx, "s-1", "tech-1", now); err != nil {
				return err
			}
			return repos.Users.SetBlockedUntil(ctx, "tech-1", until, now)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollsBackOnError", func(t *testing.T) {
		store, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE work_sessions SET is_active = FALSE").
			WithArgs(now, "s-1", "tech-1").
			WillReturnRows(sqlmock.NewRows(cols).AddRow("s-1", "tech-1", "p-1", now.Add(-time.Hour), now, false))
		mock.ExpectExec("UPDATE users SET blocked_until").
			WithArgs(until, now, "tech-1").
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err := store.WithinTransaction(ctx, func(repos repository.TxRepositories) error {
			if _, err := repos.Sessions.CloseActive(ctx, "s-1", "tech-1", now); err != nil {
				return err
			}
			return repos.Users.SetBlockedUntil(ctx, "tech-1", until, now)
		})
		assert.ErrorContains(t, err, "connection reset")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BeginFails", func(t *testing.T) {
		store, mock := newMockDB(t)
		mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

		called := false
		err := store.WithinTransaction(ctx, func(repository.TxRepositories) error {
			called = true
			return nil
		})
		assert.Error(t, err)
		assert.False(t, called)
	})
}
