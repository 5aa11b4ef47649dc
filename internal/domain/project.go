package domain

import (
	"fmt"
	"strings"
	"time"
)

type ProjectStatus string

const (
	ProjectStatusPending    ProjectStatus = "PENDING"
	ProjectStatusAssigned   ProjectStatus = "ASSIGNED"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
	ProjectStatusInvoiced   ProjectStatus = "INVOICED"
	ProjectStatusPaid       ProjectStatus = "PAID"
)

// ProjectStatuses lists the statuses in lifecycle order.
var ProjectStatuses = []ProjectStatus{
	ProjectStatusPending,
	ProjectStatusAssigned,
	ProjectStatusInProgress,
	ProjectStatusCompleted,
	ProjectStatusInvoiced,
	ProjectStatusPaid,
}

func ParseProjectStatus(s string) (ProjectStatus, error) {
	st := ProjectStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range ProjectStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown project status %q", s)
}

// IsOpen reports whether work can still be punched against the project.
func (s ProjectStatus) IsOpen() bool {
	switch s {
	case ProjectStatusCompleted, ProjectStatusInvoiced, ProjectStatusPaid:
		return false
	}
	return true
}

type Project struct {
	ID                   string        `json:"id"`
	ClientName           string        `json:"client_name"`
	ClientPhone          string        `json:"client_phone,omitempty"`
	Address              string        `json:"address"`
	Lat                  *float64      `json:"lat,omitempty"`
	Lng                  *float64      `json:"lng,omitempty"`
	Description          string        `json:"description,omitempty"`
	EstimatedCost        *float64      `json:"estimated_cost,omitempty"`
	Status               ProjectStatus `json:"status"`
	AssignedTechnicianID *string       `json:"assigned_technician_id,omitempty"`
	StartDate            *time.Time    `json:"start_date,omitempty"`
	CompletedDate        *time.Time    `json:"completed_date,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// ProjectSummary is the slice of a project shown next to a work session.
type ProjectSummary struct {
	ID          string        `json:"id"`
	ClientName  string        `json:"client_name"`
	Address     string        `json:"address"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
}

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	Status *ProjectStatus
}
