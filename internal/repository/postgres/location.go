package postgres

import (
	"context"
	"database/sql"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/repository"

	"github.com/google/uuid"
)

type locationRepository struct {
	db repository.DBTX
}

func NewLocationRepository(db repository.DBTX) repository.LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, l *domain.Location) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	query := `INSERT INTO locations (id, session_id, lat, lng, accuracy, activity_type, timestamp)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, l.ID, l.SessionID, l.Lat, l.Lng, l.Accuracy, l.ActivityType, l.Timestamp)
	return mapError(err)
}

// ListBySession returns the newest locations first.
func (r *locationRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.Location, error) {
	query := `SELECT id, session_id, lat, lng, accuracy, activity_type, timestamp
	          FROM locations WHERE session_id = $1 ORDER BY timestamp DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		var l domain.Location
		var accuracy sql.NullFloat64
		var activityType sql.NullString
		if err := rows.Scan(&l.ID, &l.SessionID, &l.Lat, &l.Lng, &accuracy, &activityType, &l.Timestamp); err != nil {
			return nil, err
		}
		l.Accuracy = nullFloatPtr(accuracy)
		l.ActivityType = nullStringPtr(activityType)
		locations = append(locations, l)
	}
	return locations, rows.Err()
}
