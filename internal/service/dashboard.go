package service

import (
	"context"
	"fmt"
	"time"

	"fieldops-backend/internal/clock"
	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/repository"
)

type dashboardService struct {
	reports repository.ReportRepository
	clock   clock.Clock
}

func NewDashboardService(reports repository.ReportRepository, c clock.Clock) DashboardService {
	return &dashboardService{reports: reports, clock: c}
}

// Metrics counts "this month" in the clock's location.
func (s *dashboardService) Metrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	now := s.clock.Now()
	y, m, _ := now.Date()
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	metrics, err := s.reports.DashboardMetrics(ctx, monthStart, monthEnd, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard metrics: %w", err)
	}
	return metrics, nil
}
