package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fieldops-backend/internal/clock"
	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/repository"
	"fieldops-backend/internal/utils"
)

type LocationInput struct {
	SessionID    string
	Lat          float64
	Lng          float64
	Accuracy     *float64
	ActivityType *string
}

type locationService struct {
	sessions  repository.WorkSessionRepository
	locations repository.LocationRepository
	reports   repository.ReportRepository
	clock     clock.Clock
}

func NewLocationService(
	sessions repository.WorkSessionRepository,
	locations repository.LocationRepository,
	reports repository.ReportRepository,
	c clock.Clock,
) LocationService {
	return &locationService{
		sessions:  sessions,
		locations: locations,
		reports:   reports,
		clock:     c,
	}
}

// RecordLocation appends a GPS ping to the caller's active session. The
// server clock stamps the ping.
func (s *locationService) RecordLocation(ctx context.Context, technicianID string, in LocationInput) (*domain.Location, error) {
	if err := validateCoordinates(in.Lat, in.Lng); err != nil {
		return nil, err
	}
	if in.Accuracy != nil && *in.Accuracy < 0 {
		return nil, fmt.Errorf("%w: accuracy must not be negative", ErrValidation)
	}

	active, err := s.sessions.FindActiveByTechnician(ctx, technicianID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to look up active session: %w", err)
	}
	if in.SessionID != "" && in.SessionID != active.ID {
		return nil, ErrSessionNotFound
	}

	var activity *string
	if in.ActivityType != nil {
		if a := strings.TrimSpace(*in.ActivityType); a != "" {
			activity = &a
		}
	}

	loc := &domain.Location{
		SessionID:    active.ID,
		Lat:          in.Lat,
		Lng:          in.Lng,
		Accuracy:     in.Accuracy,
		ActivityType: activity,
		Timestamp:    s.clock.Now(),
	}
	if err := s.locations.Create(ctx, loc); err != nil {
		return nil, fmt.Errorf("failed to record location: %w", err)
	}
	return loc, nil
}

// LiveLocations lists every active session with its latest ping. Stale is
// informational only; nothing is closed here.
func (s *locationService) LiveLocations(ctx context.Context) ([]domain.LiveLocation, error) {
	live, err := s.reports.LiveSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load live locations: %w", err)
	}
	now := s.clock.Now()
	for i := range live {
		last := live[i].StartTime
		if live[i].Location != nil {
			last = live[i].Location.Timestamp
		}
		live[i].Stale = utils.IsStale(last, now)
	}
	return live, nil
}
