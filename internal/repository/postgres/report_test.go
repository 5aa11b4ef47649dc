package postgres_test

import (
	"context"
	"testing"
	"time"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepository_LiveSessions(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReportRepository(sqlx.NewDb(db, "sqlmock"))
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	cols := []string{"technician_id", "technician_name", "technician_email", "session_id", "project_id", "project_name", "start_time",
		"location_id", "lat", "lng", "accuracy", "activity_type", "location_time"}
	mock.ExpectQuery("SELECT (.+) FROM work_sessions ws (.+) WHERE ws.is_active ORDER BY ws.start_time").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("tech-1", "Tess", "tess@example.com", "s-1", "p-1", "Acme", start, "l-1", 41.88, -87.63, nil, nil, start.Add(5*time.Minute)).
			AddRow("tech-2", "Ray", "ray@example.com", "s-2", "p-2", "Beta", start, nil, nil, nil, nil, nil, nil))

	live, err := repo.LiveSessions(ctx)
	require.NoError(t, err)
	require.Len(t, live, 2)
	require.NotNil(t, live[0].Location)
	assert.InDelta(t, 41.88, live[0].Location.Lat, 0.0001)
	assert.Nil(t, live[0].Location.Accuracy)
	assert.Nil(t, live[1].Location)
	assert.False(t, live[0].Stale, "staleness is decided by the caller")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_DashboardMetrics(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReportRepository(sqlx.NewDb(db, "sqlmock"))
	ctx := context.Background()
	monthStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) AS active_projects").
		WithArgs(monthStart, monthEnd, now).
		WillReturnRows(sqlmock.NewRows([]string{"active_projects", "total_projects", "completed_this_month", "active_technicians", "active_work_sessions", "blocked_technicians"}).
			AddRow(3, 10, 2, 5, 4, 1))
	mock.ExpectQuery("SELECT status, COUNT\\(\\*\\) AS count FROM projects GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("ASSIGNED", 2).
			AddRow("IN_PROGRESS", 1).
			AddRow("COMPLETED", 7))

	m, err := repo.DashboardMetrics(ctx, monthStart, monthEnd, now)
	require.NoError(t, err)
	assert.Equal(t, 3, m.ActiveProjects)
	assert.Equal(t, 10, m.TotalProjects)
	assert.Equal(t, 2, m.CompletedThisMonth)
	assert.Equal(t, 1, m.BlockedTechnicians)
	assert.Equal(t, 7, m.ProjectsByStatus[domain.ProjectStatusCompleted])
	assert.Equal(t, 0, m.ProjectsByStatus[domain.ProjectStatusPaid])
	assert.Len(t, m.ProjectsByStatus, len(domain.ProjectStatuses))
	assert.NoError(t, mock.ExpectationsWereMet())
}
