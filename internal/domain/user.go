package domain

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleTechnician Role = "TECHNICIAN"
	RoleCEO        Role = "CEO"
)

// ParseRole validates a role arriving from outside the process (tokens,
// request bodies, database rows). Unknown values are rejected, never cast.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTechnician, RoleCEO:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive  UserStatus = "ACTIVE"
	UserStatusBlocked UserStatus = "BLOCKED"
)

func ParseUserStatus(s string) (UserStatus, error) {
	st := UserStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case UserStatusActive, UserStatusBlocked:
		return st, nil
	}
	return "", fmt.Errorf("unknown user status %q", s)
}

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Department   string     `json:"department,omitempty"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	// BlockedUntil is the time-based login lockout. Status is a separate,
	// coarser switch managed by administrators.
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
	// EmailVerifiedAt is informational; login does not require it.
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsBlockedAt reports whether the time-based lockout is still in force at now.
func (u *User) IsBlockedAt(now time.Time) bool {
	return u.BlockedUntil != nil && now.Before(*u.BlockedUntil)
}

// DisplayName falls back to the email when no name was recorded.
func (u *User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}
