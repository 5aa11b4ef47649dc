package domain

import "time"

// WorkSession is one punch-in period of a technician. Sessions are closed,
// never deleted; at most one per technician is active at a time.
type WorkSession struct {
	ID           string     `json:"id"`
	TechnicianID string     `json:"technician_id"`
	ProjectID    string     `json:"project_id"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	IsActive     bool       `json:"is_active"`

	LatestLocation *Location       `json:"latest_location,omitempty"` // Populated by active-session lookups
	Project        *ProjectSummary `json:"project,omitempty"`
}

type Location struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	Accuracy     *float64  `json:"accuracy,omitempty"`
	ActivityType *string   `json:"activity_type,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
