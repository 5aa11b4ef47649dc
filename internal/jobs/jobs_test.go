package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fieldops-backend/internal/config"
)

type MockMaintenanceService struct {
	mock.Mock
}

func (m *MockMaintenanceService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockMaintenanceService) ReleaseElapsedBlocks(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestRunAll(t *testing.T) {
	svc := new(MockMaintenanceService)
	svc.On("ReleaseElapsedBlocks", mock.Anything).Return(int64(3), nil)
	svc.On("PurgeExpiredTokens", mock.Anything).Return(int64(0), errors.New("db down"))

	jr := NewJobRunner(svc, &config.Config{})
	jr.RunAll()

	svc.AssertExpectations(t)
}

func TestRunWithRecovery(t *testing.T) {
	jr := NewJobRunner(new(MockMaintenanceService), &config.Config{})
	ran := false
	assert.NotPanics(t, func() {
		jr.runWithRecovery("Panicky", func(ctx context.Context) {
			ran = true
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			panic("boom")
		})
	})
	assert.True(t, ran)
}
