package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/repository"

	"github.com/google/uuid"
)

const sessionColumns = `id, technician_id, project_id, start_time, end_time, is_active`

type workSessionRepository struct {
	db repository.DBTX
}

func NewWorkSessionRepository(db repository.DBTX) repository.WorkSessionRepository {
	return &workSessionRepository{db: db}
}

func scanSession(row rowScanner) (*domain.WorkSession, error) {
	s := &domain.WorkSession{}
	var endTime sql.NullTime
	if err := row.Scan(&s.ID, &s.TechnicianID, &s.ProjectID, &s.StartTime, &endTime, &s.IsActive); err != nil {
		return nil, err
	}
	s.EndTime = nullTimePtr(endTime)
	return s, nil
}

func (r *workSessionRepository) FindActiveByTechnician(ctx context.Context, technicianID string) (*domain.WorkSession, error) {
	logger.EnterMethod("workSessionRepository.FindActiveByTechnician", "technicianID", technicianID)

	query := `SELECT ws.id, ws.technician_id, ws.project_id, ws.start_time, ws.end_time, ws.is_active,
	                 p.client_name, p.address, p.description, p.status,
	                 l.id, l.lat, l.lng, l.accuracy, l.activity_type, l.timestamp
	          FROM work_sessions ws
	          JOIN projects p ON p.id = ws.project_id
	          LEFT JOIN LATERAL (
	              SELECT id, lat, lng, accuracy, activity_type, timestamp
	              FROM locations
	              WHERE session_id = ws.id
	              ORDER BY timestamp DESC
	              LIMIT 1
	          ) l ON TRUE
	          WHERE ws.technician_id = $1 AND ws.is_active`

	s := &domain.WorkSession{}
	summary := &domain.ProjectSummary{}
	var endTime sql.NullTime
	var projectStatus string
	var locID, activityType sql.NullString
	var lat, lng, accuracy sql.NullFloat64
	var locTime sql.NullTime

	err := r.db.QueryRowContext(ctx, query, technicianID).Scan(
		&s.ID, &s.TechnicianID, &s.ProjectID, &s.StartTime, &endTime, &s.IsActive,
		&summary.ClientName, &summary.Address, &summary.Description, &projectStatus,
		&locID, &lat, &lng, &accuracy, &activityType, &locTime,
	)
	if err != nil {
		err = mapError(err)
		if errors.Is(err, repository.ErrNotFound) {
			logger.ExitMethod("workSessionRepository.FindActiveByTechnician", "technicianID", technicianID, "active", false)
		} else {
			logger.ExitMethodWithError("workSessionRepository.FindActiveByTechnician", err, "technicianID", technicianID)
		}
		return nil, err
	}

	s.EndTime = nullTimePtr(endTime)
	summary.ID = s.ProjectID
	if summary.Status, err = domain.ParseProjectStatus(projectStatus); err != nil {
		return nil, fmt.Errorf("project %s: %w", s.ProjectID, err)
	}
	s.Project = summary
	if locID.Valid {
		s.LatestLocation = &domain.Location{
			ID:           locID.String,
			SessionID:    s.ID,
			Lat:          lat.Float64,
			Lng:          lng.Float64,
			Accuracy:     nullFloatPtr(accuracy),
			ActivityType: nullStringPtr(activityType),
			Timestamp:    locTime.Time,
		}
	}

	logger.ExitMethod("workSessionRepository.FindActiveByTechnician", "technicianID", technicianID, "sessionID", s.ID)
	return s, nil
}

func (r *workSessionRepository) GetByID(ctx context.Context, id string) (*domain.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM work_sessions WHERE id = $1`
	s, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *workSessionRepository) Create(ctx context.Context, s *domain.WorkSession) error {
	logger.EnterMethod("workSessionRepository.Create", "technicianID", s.TechnicianID, "projectID", s.ProjectID)
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := `INSERT INTO work_sessions (` + sessionColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.TechnicianID, s.ProjectID, s.StartTime, s.EndTime, s.IsActive)
	if err != nil {
		err = mapError(err)
		logger.ExitMethodWithError("workSessionRepository.Create", err, "technicianID", s.TechnicianID)
		return err
	}
	logger.ExitMethod("workSessionRepository.Create", "sessionID", s.ID)
	return nil
}

func (r *workSessionRepository) CloseActive(ctx context.Context, sessionID, technicianID string, now time.Time) (*domain.WorkSession, error) {
	logger.EnterMethod("workSessionRepository.CloseActive", "sessionID", sessionID, "technicianID", technicianID)
	query := `UPDATE work_sessions SET is_active = FALSE, end_time = $1
	          WHERE id = $2 AND technician_id = $3 AND is_active
	          RETURNING ` + sessionColumns
	s, err := scanSession(r.db.QueryRowContext(ctx, query, now, sessionID, technicianID))
	if err != nil {
		err = mapError(err)
		logger.ExitMethodWithError("workSessionRepository.CloseActive", err, "sessionID", sessionID)
		return nil, err
	}
	logger.ExitMethod("workSessionRepository.CloseActive", "sessionID", s.ID)
	return s, nil
}
