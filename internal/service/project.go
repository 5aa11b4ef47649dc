package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fieldops-backend/internal/clock"
	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/repository"
)

// ProjectInput carries create and partial-update fields. Nil means "not
// supplied"; an empty AssignedTechnicianID unassigns the project.
type ProjectInput struct {
	ClientName           *string
	ClientPhone          *string
	Address              *string
	Lat                  *float64
	Lng                  *float64
	Description          *string
	EstimatedCost        *float64
	Status               *domain.ProjectStatus
	AssignedTechnicianID *string
}

type projectService struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
	clock    clock.Clock
}

func NewProjectService(projects repository.ProjectRepository, users repository.UserRepository, c clock.Clock) ProjectService {
	return &projectService{
		projects: projects,
		users:    users,
		clock:    c,
	}
}

func (s *projectService) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (s *projectService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (s *projectService) CreateProject(ctx context.Context, in ProjectInput) (*domain.Project, error) {
	logger.EnterMethod("projectService.CreateProject")

	if in.ClientName == nil || strings.TrimSpace(*in.ClientName) == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrValidation)
	}
	if in.Address == nil || strings.TrimSpace(*in.Address) == "" {
		return nil, fmt.Errorf("%w: address is required", ErrValidation)
	}

	now := s.clock.Now()
	p := &domain.Project{
		Status:    domain.ProjectStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apply(ctx, p, in, now); err != nil {
		return nil, err
	}
	if p.AssignedTechnicianID != nil && p.Status == domain.ProjectStatusPending {
		p.Status = domain.ProjectStatusAssigned
	}

	if err := s.projects.Create(ctx, p); err != nil {
		logger.ExitMethodWithError("projectService.CreateProject", err)
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	logger.ExitMethod("projectService.CreateProject", "projectID", p.ID, "status", p.Status)
	return p, nil
}

func (s *projectService) UpdateProject(ctx context.Context, id string, in ProjectInput) (*domain.Project, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	wasUnassigned := p.AssignedTechnicianID == nil
	if err := s.apply(ctx, p, in, now); err != nil {
		return nil, err
	}
	if wasUnassigned && p.AssignedTechnicianID != nil && p.Status == domain.ProjectStatusPending {
		p.Status = domain.ProjectStatusAssigned
	}
	p.UpdatedAt = now

	if err := s.projects.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return p, nil
}

// apply copies supplied fields onto p and validates them.
func (s *projectService) apply(ctx context.Context, p *domain.Project, in ProjectInput, now time.Time) error {
	if in.ClientName != nil {
		name := strings.TrimSpace(*in.ClientName)
		if name == "" {
			return fmt.Errorf("%w: client name must not be empty", ErrValidation)
		}
		p.ClientName = name
	}
	if in.ClientPhone != nil {
		p.ClientPhone = strings.TrimSpace(*in.ClientPhone)
	}
	if in.Address != nil {
		addr := strings.TrimSpace(*in.Address)
		if addr == "" {
			return fmt.Errorf("%w: address must not be empty", ErrValidation)
		}
		p.Address = addr
	}
	if in.Lat != nil || in.Lng != nil {
		lat, lng := p.Lat, p.Lng
		if in.Lat != nil {
			lat = in.Lat
		}
		if in.Lng != nil {
			lng = in.Lng
		}
		if lat == nil || lng == nil {
			return fmt.Errorf("%w: lat and lng must be set together", ErrValidation)
		}
		if err := validateCoordinates(*lat, *lng); err != nil {
			return err
		}
		p.Lat, p.Lng = lat, lng
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.EstimatedCost != nil {
		if *in.EstimatedCost < 0 {
			return fmt.Errorf("%w: estimated cost must not be negative", ErrValidation)
		}
		p.EstimatedCost = in.EstimatedCost
	}
	if in.AssignedTechnicianID != nil {
		techID := strings.TrimSpace(*in.AssignedTechnicianID)
		if techID == "" {
			p.AssignedTechnicianID = nil
		} else {
			if err := s.requireTechnician(ctx, techID); err != nil {
				return err
			}
			p.AssignedTechnicianID = &techID
		}
	}
	if in.Status != nil {
		if _, err := domain.ParseProjectStatus(string(*in.Status)); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		applyStatus(p, *in.Status, now)
	}
	return nil
}

func (s *projectService) requireTechnician(ctx context.Context, id string) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: assigned technician does not exist", ErrValidation)
		}
		return fmt.Errorf("failed to load technician: %w", err)
	}
	if u.Role != domain.RoleTechnician {
		return fmt.Errorf("%w: projects can only be assigned to technicians", ErrValidation)
	}
	return nil
}

// applyStatus sets the status and stamps StartDate and CompletedDate the
// first time the project reaches IN_PROGRESS and COMPLETED.
func applyStatus(p *domain.Project, status domain.ProjectStatus, now time.Time) {
	p.Status = status
	switch status {
	case domain.ProjectStatusInProgress:
		if p.StartDate == nil {
			p.StartDate = &now
		}
	case domain.ProjectStatusCompleted:
		if p.CompletedDate == nil {
			p.CompletedDate = &now
		}
	}
}

func (s *projectService) DeleteProject(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrProjectNotFound
		case errors.Is(err, repository.ErrReferenced):
			return ErrProjectInUse
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	logger.Info("Project deleted", "projectID", id)
	return nil
}

func (s *projectService) ListAssignedProjects(ctx context.Context, technicianID string) ([]domain.Project, error) {
	projects, err := s.projects.ListByTechnician(ctx, technicianID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned projects: %w", err)
	}
	return projects, nil
}

// UpdateProjectStatus lets a technician move one of their own projects along.
// Projects assigned to someone else are reported as not found.
func (s *projectService) UpdateProjectStatus(ctx context.Context, technicianID, projectID string, status domain.ProjectStatus) (*domain.Project, error) {
	if _, err := domain.ParseProjectStatus(string(status)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.AssignedTechnicianID == nil || *p.AssignedTechnicianID != technicianID {
		return nil, ErrProjectNotFound
	}

	now := s.clock.Now()
	applyStatus(p, status, now)
	p.UpdatedAt = now
	if err := s.projects.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}
	logger.Info("Project status updated", "projectID", p.ID, "technicianID", technicianID, "status", status)
	return p, nil
}
