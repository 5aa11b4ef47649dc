package domain

import "time"

// LiveLocation is one active work session as seen on the admin map.
type LiveLocation struct {
	TechnicianID    string    `json:"technician_id"`
	TechnicianName  string    `json:"technician_name"`
	TechnicianEmail string    `json:"technician_email"`
	SessionID       string    `json:"session_id"`
	ProjectID       string    `json:"project_id"`
	ProjectName     string    `json:"project_name"`
	StartTime       time.Time `json:"start_time"`
	Location        *Location `json:"location"`
	Stale           bool      `json:"stale"`
}

type DashboardMetrics struct {
	ActiveProjects     int                   `json:"active_projects"`
	TotalProjects      int                   `json:"total_projects"`
	CompletedThisMonth int                   `json:"completed_this_month"`
	ActiveTechnicians  int                   `json:"active_technicians"`
	ActiveWorkSessions int                   `json:"active_work_sessions"`
	BlockedTechnicians int                   `json:"blocked_technicians"`
	ProjectsByStatus   map[ProjectStatus]int `json:"projects_by_status"`
}
