package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/repository"

	"github.com/jmoiron/sqlx"
)

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

type liveSessionRow struct {
	TechnicianID    string          `db:"technician_id"`
	TechnicianName  string          `db:"technician_name"`
	TechnicianEmail string          `db:"technician_email"`
	SessionID       string          `db:"session_id"`
	ProjectID       string          `db:"project_id"`
	ProjectName     string          `db:"project_name"`
	StartTime       time.Time       `db:"start_time"`
	LocationID      sql.NullString  `db:"location_id"`
	Lat             sql.NullFloat64 `db:"lat"`
	Lng             sql.NullFloat64 `db:"lng"`
	Accuracy        sql.NullFloat64 `db:"accuracy"`
	ActivityType    sql.NullString  `db:"activity_type"`
	LocationTime    sql.NullTime    `db:"location_time"`
}

func (r *reportRepository) LiveSessions(ctx context.Context) ([]domain.LiveLocation, error) {
	query := `SELECT ws.technician_id, u.name AS technician_name, u.email AS technician_email,
	                 ws.id AS session_id, ws.project_id, p.client_name AS project_name, ws.start_time,
	                 l.id AS location_id, l.lat, l.lng, l.accuracy, l.activity_type, l.timestamp AS location_time
	          FROM work_sessions ws
	          JOIN users u ON u.id = ws.technician_id
	          JOIN projects p ON p.id = ws.project_id
	          LEFT JOIN LATERAL (
	              SELECT id, lat, lng, accuracy, activity_type, timestamp
	              FROM locations
	              WHERE session_id = ws.id
	              ORDER BY timestamp DESC
	              LIMIT 1
	          ) l ON TRUE
	          WHERE ws.is_active
	          ORDER BY ws.start_time`

	logger.DatabaseCall("LiveSessions", "work_sessions+locations")
	var rows []liveSessionRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		logger.DatabaseResult("LiveSessions", 0, err)
		return nil, mapError(err)
	}
	logger.DatabaseResult("LiveSessions", int64(len(rows)), nil)

	live := make([]domain.LiveLocation, 0, len(rows))
	for _, row := range rows {
		item := domain.LiveLocation{
			TechnicianID:    row.TechnicianID,
			TechnicianName:  row.TechnicianName,
			TechnicianEmail: row.TechnicianEmail,
			SessionID:       row.SessionID,
			ProjectID:       row.ProjectID,
			ProjectName:     row.ProjectName,
			StartTime:       row.StartTime,
		}
		if row.LocationID.Valid {
			item.Location = &domain.Location{
				ID:           row.LocationID.String,
				SessionID:    row.SessionID,
				Lat:          row.Lat.Float64,
				Lng:          row.Lng.Float64,
				Accuracy:     nullFloatPtr(row.Accuracy),
				ActivityType: nullStringPtr(row.ActivityType),
				Timestamp:    row.LocationTime.Time,
			}
		}
		live = append(live, item)
	}
	return live, nil
}

type dashboardCounts struct {
	ActiveProjects     int `db:"active_projects"`
	TotalProjects      int `db:"total_projects"`
	CompletedThisMonth int `db:"completed_this_month"`
	ActiveTechnicians  int `db:"active_technicians"`
	ActiveWorkSessions int `db:"active_work_sessions"`
	BlockedTechnicians int `db:"blocked_technicians"`
}

type statusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

// DashboardMetrics counts projects completed in [monthStart, monthEnd) and
// technicians whose block is still in force at now.
func (r *reportRepository) DashboardMetrics(ctx context.Context, monthStart, monthEnd, now time.Time) (*domain.DashboardMetrics, error) {
	countsQuery := `SELECT
	    (SELECT COUNT(*) FROM projects WHERE status IN ('ASSIGNED', 'IN_PROGRESS')) AS active_projects,
	    (SELECT COUNT(*) FROM projects) AS total_projects,
	    (SELECT COUNT(*) FROM projects WHERE completed_date >= $1 AND completed_date < $2) AS completed_this_month,
	    (SELECT COUNT(*) FROM users WHERE role = 'TECHNICIAN' AND status = 'ACTIVE') AS active_technicians,
	    (SELECT COUNT(*) FROM work_sessions WHERE is_active) AS active_work_sessions,
	    (SELECT COUNT(*) FROM users WHERE role = 'TECHNICIAN' AND blocked_until > $3) AS blocked_technicians`

	var counts dashboardCounts
	if err := r.db.GetContext(ctx, &counts, countsQuery, monthStart, monthEnd, now); err != nil {
		return nil, fmt.Errorf("failed to count dashboard metrics: %w", mapError(err))
	}

	var byStatus []statusCount
	if err := r.db.SelectContext(ctx, &byStatus, `SELECT status, COUNT(*) AS count FROM projects GROUP BY status`); err != nil {
		return nil, fmt.Errorf("failed to count projects by status: %w", mapError(err))
	}

	metrics := &domain.DashboardMetrics{
		ActiveProjects:     counts.ActiveProjects,
		TotalProjects:      counts.TotalProjects,
		CompletedThisMonth: counts.CompletedThisMonth,
		ActiveTechnicians:  counts.ActiveTechnicians,
		ActiveWorkSessions: counts.ActiveWorkSessions,
		BlockedTechnicians: counts.BlockedTechnicians,
		ProjectsByStatus:   make(map[domain.ProjectStatus]int, len(domain.ProjectStatuses)),
	}
	for _, st := range domain.ProjectStatuses {
		metrics.ProjectsByStatus[st] = 0
	}
	for _, sc := range byStatus {
		metrics.ProjectsByStatus[domain.ProjectStatus(sc.Status)] = sc.Count
	}
	return metrics, nil
}
