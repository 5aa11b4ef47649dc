package service

import (
	"context"
	"testing"
	"time"

	"fieldops-backend/internal/clock"
	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProjectService_CreateProject(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	t.Run("PendingWithoutTechnician", func(t *testing.T) {
		projects := new(MockProjectRepo)
		svc := NewProjectService(projects, new(MockUserRepo), clock.NewFake(now))
		projects.On("Create", ctx, mock.MatchedBy(func(p *domain.Project) bool {
			return p.Status == domain.ProjectStatusPending && p.ClientName == "Acme"
		})).Return(nil)

		p, err := svc.CreateProject(ctx, ProjectInput{ClientName: strPtr("Acme"), Address: strPtr("1 Main St")})
		require.NoError(t, err)
		assert.Equal(t, domain.ProjectStatusPending, p.Status)
	})

	t.Run("AssignedWithTechnician", func(t *testing.T) {
		projects := new(MockProjectRepo)
		users := new(MockUserRepo)
		svc := NewProjectService(projects, users, clock.NewFake(now))
		users.On("GetByID", ctx, "tech-1").Return(&domain.User{ID: "tech-1", Role: domain.RoleTechnician}, nil)
		projects.On("Create", ctx, mock.Anything).Return(nil)

		p, err := svc.CreateProject(ctx, ProjectInput{ClientName: strPtr("Acme"), Address: strPtr("1 Main St"), AssignedTechnicianID: strPtr("tech-1")})
		require.NoError(t, err)
		assert.Equal(t, domain.ProjectStatusAssigned, p.Status)
	})

	t.Run("AssignToAdminRejected", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := NewProjectService(new(MockProjectRepo), users, clock.NewFake(now))
		users.On("GetByID", ctx, "admin-1").Return(&domain.User{ID: "admin-1", Role: domain.RoleAdmin}, nil)

		_, err := svc.CreateProject(ctx, ProjectInput{ClientName: strPtr("Acme"), Address: strPtr("1 Main St"), AssignedTechnicianID: strPtr("admin-1")})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("MissingAddress", func(t *testing.T) {
		svc := NewProjectService(new(MockProjectRepo), new(MockUserRepo), clock.NewFake(now))
		_, err := svc.CreateProject(ctx, ProjectInput{ClientName: strPtr("Acme")})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestProjectService_UpdateProjectStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	techID := "tech-1"

	t.Run("FirstInProgressStampsStartDate", func(t *testing.T) {
		projects := new(MockProjectRepo)
		svc := NewProjectService(projects, new(MockUserRepo), clock.NewFake(now))
		projects.On("GetByID", ctx, "p-1").Return(&domain.Project{ID: "p-1", Status: domain.ProjectStatusAssigned, AssignedTechnicianID: &techID}, nil)
		projects.On("Update", ctx, mock.Anything).Return(nil)

		p, err := svc.UpdateProjectStatus(ctx, techID, "p-1", domain.ProjectStatusInProgress)
		require.NoError(t, err)
		require.NotNil(t, p.StartDate)
		assert.True(t, now.Equal(*p.StartDate))
		assert.Nil(t, p.CompletedDate)
	})

	t.Run("StartDateKeptOnRepeat", func(t *testing.T) {
		projects := new(MockProjectRepo)
		svc := NewProjectService(projects, new(MockUserRepo), clock.NewFake(now))
		earlier := now.Add(-48 * time.Hour)
		projects.On("GetByID", ctx, "p-1").Return(&domain.Project{ID: "p-1", Status: domain.ProjectStatusInProgress, StartDate: &earlier, AssignedTechnicianID: &techID}, nil)
		projects.On("Update", ctx, mock.Anything).Return(nil)

		p, err := svc.UpdateProjectStatus(ctx, techID, "p-1", domain.ProjectStatusCompleted)
		require.NoError(t, err)
		assert.True(t, earlier.Equal(*p.StartDate))
		require.NotNil(t, p.CompletedDate)
		assert.True(t, now.Equal(*p.CompletedDate))
	})

	t.Run("NotAssignedToCaller", func(t *testing.T) {
		projects := new(MockProjectRepo)
		svc := NewProjectService(projects, new(MockUserRepo), clock.NewFake(now))
		projects.On("GetByID", ctx, "p-1").Return(&domain.Project{ID: "p-1", Status: domain.ProjectStatusAssigned}, nil)

		_, err := svc.UpdateProjectStatus(ctx, techID, "p-1", domain.ProjectStatusInProgress)
		assert.Equal(t, ErrProjectNotFound, err)
		projects.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		svc := NewProjectService(new(MockProjectRepo), new(MockUserRepo), clock.NewFake(now))
		_, err := svc.UpdateProjectStatus(ctx, techID, "p-1", domain.ProjectStatus("ON_HOLD"))
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestProjectService_DeleteProject(t *testing.T) {
	ctx := context.Background()
	projects := new(MockProjectRepo)
	svc := NewProjectService(projects, new(MockUserRepo), clock.NewFake(time.Now()))

	projects.On("Delete", ctx, "p-1").Return(repository.ErrReferenced)
	projects.On("Delete", ctx, "p-2").Return(repository.ErrNotFound)
	projects.On("Delete", ctx, "p-3").Return(nil)

	assert.Equal(t, ErrProjectInUse, svc.DeleteProject(ctx, "p-1"))
	assert.Equal(t, ErrProjectNotFound, svc.DeleteProject(ctx, "p-2"))
	assert.NoError(t, svc.DeleteProject(ctx, "p-3"))
}
