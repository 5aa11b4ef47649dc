package service

import (
	"context"
	"time"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, now time.Time) error {
	args := m.Called(ctx, id, passwordHash, now)
	return args.Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserRepo) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	args := m.Called(ctx, role)
	return args.Int(0), args.Error(1)
}
func (m *MockUserRepo) MarkEmailVerified(ctx context.Context, email string, now time.Time) error {
	args := m.Called(ctx, email, now)
	return args.Error(0)
}
func (m *MockUserRepo) SetBlockedUntil(ctx context.Context, id string, until, now time.Time) error {
	args := m.Called(ctx, id, until, now)
	return args.Error(0)
}
func (m *MockUserRepo) ClearBlockedUntil(ctx context.Context, id string, now time.Time) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}
func (m *MockUserRepo) ReleaseElapsedBlocks(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockSessionRepo
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) FindActiveByTechnician(ctx context.Context, technicianID string) (*domain.WorkSession, error) {
	args := m.Called(ctx, technicianID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkSession), args.Error(1)
}
func (m *MockSessionRepo) GetByID(ctx context.Context, id string) (*domain.WorkSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkSession), args.Error(1)
}
func (m *MockSessionRepo) Create(ctx context.Context, session *domain.WorkSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}
func (m *MockSessionRepo) CloseActive(ctx context.Context, sessionID, technicianID string, now time.Time) (*domain.WorkSession, error) {
	args := m.Called(ctx, sessionID, technicianID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkSession), args.Error(1)
}

// MockLocationRepo
type MockLocationRepo struct {
	mock.Mock
}

func (m *MockLocationRepo) Create(ctx context.Context, location *domain.Location) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}
func (m *MockLocationRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.Location, error) {
	args := m.Called(ctx, sessionID, limit)
	return args.Get(0).([]domain.Location), args.Error(1)
}

// MockProjectRepo
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}
func (m *MockProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}
func (m *MockProjectRepo) List(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Project), args.Error(1)
}
func (m *MockProjectRepo) ListByTechnician(ctx context.Context, technicianID string) ([]domain.Project, error) {
	args := m.Called(ctx, technicianID)
	return args.Get(0).([]domain.Project), args.Error(1)
}
func (m *MockProjectRepo) FindLatestOpenForTechnician(ctx context.Context, technicianID string) (*domain.Project, error) {
	args := m.Called(ctx, technicianID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}
func (m *MockProjectRepo) Update(ctx context.Context, project *domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}
func (m *MockProjectRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokenRepo
type MockTokenRepo struct {
	mock.Mock
}

func (m *MockTokenRepo) Create(ctx context.Context, token *domain.AuthToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
func (m *MockTokenRepo) FindByToken(ctx context.Context, token string, tokenType domain.AuthTokenType) (*domain.AuthToken, error) {
	args := m.Called(ctx, token, tokenType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthToken), args.Error(1)
}
func (m *MockTokenRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockTokenRepo) DeleteByEmail(ctx context.Context, email string, tokenType domain.AuthTokenType) error {
	args := m.Called(ctx, email, tokenType)
	return args.Error(0)
}
func (m *MockTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockReportRepo
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) LiveSessions(ctx context.Context) ([]domain.LiveLocation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.LiveLocation), args.Error(1)
}
func (m *MockReportRepo) DashboardMetrics(ctx context.Context, monthStart, monthEnd, now time.Time) (*domain.DashboardMetrics, error) {
	args := m.Called(ctx, monthStart, monthEnd, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardMetrics), args.Error(1)
}

// fakeTransactor runs fn against the mock repositories and records the outcome.
type fakeTransactor struct {
	repos      repository.TxRepositories
	committed  int
	rolledBack int
}

func newFakeTransactor(users *MockUserRepo, sessions *MockSessionRepo, projects *MockProjectRepo, tokens *MockTokenRepo) *fakeTransactor {
	return &fakeTransactor{repos: repository.TxRepositories{
		Users:    users,
		Sessions: sessions,
		Projects: projects,
		Tokens:   tokens,
	}}
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(repos repository.TxRepositories) error) error {
	if err := fn(f.repos); err != nil {
		f.rolledBack++
		return err
	}
	f.committed++
	return nil
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendPasswordReset(ctx context.Context, email, name, resetLink string) error {
	args := m.Called(ctx, email, name, resetLink)
	return args.Error(0)
}
func (m *MockEmailService) SendEmailVerification(ctx context.Context, email, name, verifyLink string) error {
	args := m.Called(ctx, email, name, verifyLink)
	return args.Error(0)
}

// MockPushService
type MockPushService struct {
	mock.Mock
}

func (m *MockPushService) SendLockoutAlert(ctx context.Context, technician *domain.User, sessionID string, blockedUntil time.Time) error {
	args := m.Called(ctx, technician, sessionID, blockedUntil)
	return args.Error(0)
}

// MockCache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}
func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
