package utils

import (
	"time"

	"fieldops-backend/internal/domain"
)

// StaleSessionThreshold is how long an active work session may go without a
// location ping before the next login treats it as abandoned.
const StaleSessionThreshold = 15 * time.Minute

// NextSixAM returns 06:00:00.000 on the calendar day after now, in now's
// location. It never returns the same day's 06:00, even before dawn, so a
// lockout always lasts at least until the following morning.
func NextSixAM(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 6, 0, 0, 0, now.Location())
}

// IsStale reports whether more than StaleSessionThreshold has elapsed since
// lastActivity.
func IsStale(lastActivity, now time.Time) bool {
	return now.Sub(lastActivity) > StaleSessionThreshold
}

// LastActivity is the latest location timestamp of the session, or its start
// time when no location has been recorded yet.
func LastActivity(s *domain.WorkSession) time.Time {
	if s.LatestLocation != nil {
		return s.LatestLocation.Timestamp
	}
	return s.StartTime
}
