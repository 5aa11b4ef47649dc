package http

import (
	"context"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/security"
	"fieldops-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*security.SessionClaims, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*security.SessionClaims), args.String(1), args.Error(2)
}
func (m *MockAuthService) CheckBlocked(ctx context.Context, email string) service.BlockStatus {
	args := m.Called(ctx, email)
	return args.Get(0).(service.BlockStatus)
}
func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}
func (m *MockAuthService) VerifyEmail(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}
func (m *MockAuthService) ResendVerification(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *MockAuthService) CheckVerified(ctx context.Context, email string) bool {
	return m.Called(ctx, email).Bool(0)
}

type MockWorkSessionService struct {
	mock.Mock
}

func (m *MockWorkSessionService) StartWorkSession(ctx context.Context, technicianID, projectID string) (*domain.WorkSession, error) {
	args := m.Called(ctx, technicianID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkSession), args.Error(1)
}
func (m *MockWorkSessionService) EndWorkSession(ctx context.Context, technicianID, sessionID string) (*domain.WorkSession, error) {
	args := m.Called(ctx, technicianID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkSession), args.Error(1)
}
func (m *MockWorkSessionService) CurrentWorkSession(ctx context.Context, technicianID string) (*domain.WorkSession, error) {
	args := m.Called(ctx, technicianID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkSession), args.Error(1)
}

type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) RecordLocation(ctx context.Context, technicianID string, in service.LocationInput) (*domain.Location, error) {
	args := m.Called(ctx, technicianID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}
func (m *MockLocationService) LiveLocations(ctx context.Context) ([]domain.LiveLocation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.LiveLocation), args.Error(1)
}

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Project), args.Error(1)
}
func (m *MockProjectService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}
func (m *MockProjectService) CreateProject(ctx context.Context, in service.ProjectInput) (*domain.Project, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}
func (m *MockProjectService) UpdateProject(ctx context.Context, id string, in service.ProjectInput) (*domain.Project, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}
func (m *MockProjectService) DeleteProject(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockProjectService) ListAssignedProjects(ctx context.Context, technicianID string) ([]domain.Project, error) {
	args := m.Called(ctx, technicianID)
	return args.Get(0).([]domain.Project), args.Error(1)
}
func (m *MockProjectService) UpdateProjectStatus(ctx context.Context, technicianID, projectID string, status domain.ProjectStatus) (*domain.Project, error) {
	args := m.Called(ctx, technicianID, projectID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) CreateUser(ctx context.Context, in service.CreateUserInput) (*domain.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) UpdateUser(ctx context.Context, id string, in service.UpdateUserInput) (*domain.User, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Metrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardMetrics), args.Error(1)
}

type MockSessionValidator struct {
	mock.Mock
}

func (m *MockSessionValidator) Validate(ctx context.Context, claims *security.SessionClaims) error {
	return m.Called(ctx, claims).Error(0)
}
