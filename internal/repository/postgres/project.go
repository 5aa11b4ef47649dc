package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/repository"

	"github.com/google/uuid"
)

const projectColumns = `id, client_name, client_phone, address, lat, lng, description, estimated_cost, status,
	assigned_technician_id, start_date, completed_date, created_at, updated_at`

type projectRepository struct {
	db repository.DBTX
}

func NewProjectRepository(db repository.DBTX) repository.ProjectRepository {
	return &projectRepository{db: db}
}

func scanProject(row rowScanner) (*domain.Project, error) {
	p := &domain.Project{}
	var lat, lng, cost sql.NullFloat64
	var status string
	var technicianID sql.NullString
	var startDate, completedDate sql.NullTime
	err := row.Scan(&p.ID, &p.ClientName, &p.ClientPhone, &p.Address, &lat, &lng, &p.Description, &cost, &status,
		&technicianID, &startDate, &completedDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.Status, err = domain.ParseProjectStatus(status); err != nil {
		return nil, fmt.Errorf("project %s: %w", p.ID, err)
	}
	p.Lat = nullFloatPtr(lat)
	p.Lng = nullFloatPtr(lng)
	p.EstimatedCost = nullFloatPtr(cost)
	p.AssignedTechnicianID = nullStringPtr(technicianID)
	p.StartDate = nullTimePtr(startDate)
	p.CompletedDate = nullTimePtr(completedDate)
	return p, nil
}

func (r *projectRepository) queryProjects(ctx context.Context, query string, args ...any) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (r *projectRepository) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `INSERT INTO projects (` + projectColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.ClientName, p.ClientPhone, p.Address, p.Lat, p.Lng, p.Description,
		p.EstimatedCost, p.Status, p.AssignedTechnicianID, p.StartDate, p.CompletedDate, p.CreatedAt, p.UpdatedAt)
	return mapError(err)
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *projectRepository) List(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var args []any
	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY created_at DESC`
	return r.queryProjects(ctx, query, args...)
}

func (r *projectRepository) ListByTechnician(ctx context.Context, technicianID string) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE assigned_technician_id = $1 ORDER BY created_at DESC`
	return r.queryProjects(ctx, query, technicianID)
}

func (r *projectRepository) FindLatestOpenForTechnician(ctx context.Context, technicianID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
	          WHERE assigned_technician_id = $1 AND status IN ('ASSIGNED', 'IN_PROGRESS')
	          ORDER BY created_at DESC LIMIT 1`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, technicianID))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *projectRepository) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET client_name = $1, client_phone = $2, address = $3, lat = $4, lng = $5,
	              description = $6, estimated_cost = $7, status = $8, assigned_technician_id = $9,
	              start_date = $10, completed_date = $11, updated_at = $12
	          WHERE id = $13`
	res, err := r.db.ExecContext(ctx, query, p.ClientName, p.ClientPhone, p.Address, p.Lat, p.Lng, p.Description,
		p.EstimatedCost, p.Status, p.AssignedTechnicianID, p.StartDate, p.CompletedDate, p.UpdatedAt, p.ID)
	if err != nil {
		return mapError(err)
	}
	return expectOneRow(res)
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return expectOneRow(res)
}
