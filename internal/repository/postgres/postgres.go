package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"

	activeSessionIndex = "work_sessions_one_active"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.WorkSessionRepository
	repository.LocationRepository
	repository.ProjectRepository
	repository.AuthTokenRepository
	repository.ReportRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		UserRepository:        NewUserRepository(db),
		WorkSessionRepository: NewWorkSessionRepository(db),
		LocationRepository:    NewLocationRepository(db),
		ProjectRepository:     NewProjectRepository(db),
		AuthTokenRepository:   NewAuthTokenRepository(db),
		ReportRepository:      NewReportRepository(sqlx.NewDb(db, "postgres")),
	}
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	logger.DatabaseCall("Migrate", "schema.sql")
	_, err := db.ExecContext(ctx, schemaSQL)
	logger.DatabaseResult("Migrate", 0, err)
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func newTxRepositories(tx *sql.Tx) repository.TxRepositories {
	return repository.TxRepositories{
		Users:     NewUserRepository(tx),
		Sessions:  NewWorkSessionRepository(tx),
		Locations: NewLocationRepository(tx),
		Projects:  NewProjectRepository(tx),
		Tokens:    NewAuthTokenRepository(tx),
	}
}

// WithinTransaction implements repository.Transactor.
func (s *Store) WithinTransaction(ctx context.Context, fn func(repos repository.TxRepositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(newTxRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Failed to roll back transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			if pqErr.Constraint == activeSessionIndex {
				return fmt.Errorf("%w: %s", repository.ErrActiveSessionExists, pqErr.Message)
			}
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pqErr.Message)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %s", repository.ErrReferenced, pqErr.Message)
		}
	}
	return err
}

// expectOneRow turns a zero-row update into ErrNotFound.
func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func nullFloatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
