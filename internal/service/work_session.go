package service

import (
	"context"
	"errors"
	"fmt"

	"fieldops-backend/internal/clock"
	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/repository"
)

const placeholderAddress = "TBD"

type workSessionService struct {
	users    repository.UserRepository
	sessions repository.WorkSessionRepository
	tx       repository.Transactor
	clock    clock.Clock
}

func NewWorkSessionService(
	users repository.UserRepository,
	sessions repository.WorkSessionRepository,
	tx repository.Transactor,
	c clock.Clock,
) WorkSessionService {
	return &workSessionService{
		users:    users,
		sessions: sessions,
		tx:       tx,
		clock:    c,
	}
}

// StartWorkSession punches the technician in. Without a projectID the most
// recent open assignment is used, falling back to a placeholder project.
func (s *workSessionService) StartWorkSession(ctx context.Context, technicianID, projectID string) (*domain.WorkSession, error) {
	logger.EnterMethod("workSessionService.StartWorkSession", "technicianID", technicianID, "projectID", projectID)

	if _, err := s.sessions.FindActiveByTechnician(ctx, technicianID); err == nil {
		logger.ExitMethod("workSessionService.StartWorkSession", "technicianID", technicianID, "result", "conflict")
		return nil, ErrSessionConflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		logger.ExitMethodWithError("workSessionService.StartWorkSession", err, "technicianID", technicianID)
		return nil, fmt.Errorf("failed to look up active session: %w", err)
	}

	now := s.clock.Now()
	session := &domain.WorkSession{
		TechnicianID: technicianID,
		StartTime:    now,
		IsActive:     true,
	}

	err := s.tx.WithinTransaction(ctx, func(repos repository.TxRepositories) error {
		project, err := s.chooseProject(ctx, repos, technicianID, projectID)
		if err != nil {
			return err
		}
		session.ProjectID = project.ID
		session.Project = &domain.ProjectSummary{
			ID:          project.ID,
			ClientName:  project.ClientName,
			Address:     project.Address,
			Description: project.Description,
			Status:      project.Status,
		}
		return repos.Sessions.Create(ctx, session)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrActiveSessionExists):
			logger.ExitMethod("workSessionService.StartWorkSession", "technicianID", technicianID, "result", "conflict")
			return nil, ErrSessionConflict
		case errors.Is(err, ErrProjectNotFound):
			return nil, err
		}
		logger.ExitMethodWithError("workSessionService.StartWorkSession", err, "technicianID", technicianID)
		return nil, fmt.Errorf("failed to start work session: %w", err)
	}

	logger.PolicyEvent("session_started", technicianID, "session_id", session.ID, "project_id", session.ProjectID)
	logger.ExitMethod("workSessionService.StartWorkSession", "sessionID", session.ID)
	return session, nil
}

func (s *workSessionService) chooseProject(ctx context.Context, repos repository.TxRepositories, technicianID, projectID string) (*domain.Project, error) {
	if projectID != "" {
		project, err := repos.Projects.GetByID(ctx, projectID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, err
		}
		if project.AssignedTechnicianID == nil || *project.AssignedTechnicianID != technicianID || !project.Status.IsOpen() {
			return nil, ErrProjectNotFound
		}
		return project, nil
	}

	project, err := repos.Projects.FindLatestOpenForTechnician(ctx, technicianID)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	tech, err := repos.Users.GetByID(ctx, technicianID)
	if err != nil {
		return nil, fmt.Errorf("failed to load technician: %w", err)
	}
	now := s.clock.Now()
	placeholder := &domain.Project{
		ClientName:           "General Work - " + tech.DisplayName(),
		Address:              placeholderAddress,
		Description:          "General work session",
		Status:               domain.ProjectStatusInProgress,
		AssignedTechnicianID: &technicianID,
		StartDate:            &now,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := repos.Projects.Create(ctx, placeholder); err != nil {
		return nil, err
	}
	logger.Info("Created placeholder project", "technicianID", technicianID, "projectID", placeholder.ID)
	return placeholder, nil
}

// EndWorkSession punches the technician out. An empty sessionID ends the
// caller's active session.
func (s *workSessionService) EndWorkSession(ctx context.Context, technicianID, sessionID string) (*domain.WorkSession, error) {
	logger.EnterMethod("workSessionService.EndWorkSession", "technicianID", technicianID, "sessionID", sessionID)

	if sessionID == "" {
		active, err := s.sessions.FindActiveByTechnician(ctx, technicianID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrSessionNotFound
			}
			return nil, fmt.Errorf("failed to look up active session: %w", err)
		}
		sessionID = active.ID
	}

	session, err := s.sessions.CloseActive(ctx, sessionID, technicianID, s.clock.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.ExitMethod("workSessionService.EndWorkSession", "sessionID", sessionID, "result", "not_found")
			return nil, ErrSessionNotFound
		}
		logger.ExitMethodWithError("workSessionService.EndWorkSession", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to end work session: %w", err)
	}

	logger.PolicyEvent("session_ended", technicianID, "session_id", session.ID)
	logger.ExitMethod("workSessionService.EndWorkSession", "sessionID", session.ID)
	return session, nil
}

// CurrentWorkSession returns nil without error when the technician is punched out.
func (s *workSessionService) CurrentWorkSession(ctx context.Context, technicianID string) (*domain.WorkSession, error) {
	session, err := s.sessions.FindActiveByTechnician(ctx, technicianID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up active session: %w", err)
	}
	return session, nil
}
