package service

import "errors"

// Login outcomes. The HTTP layer collapses all three into one response.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is not active")
	ErrAccountBlocked     = errors.New("account is blocked until the next morning")
)

var (
	ErrSessionConflict = errors.New("an active work session already exists")
	ErrSessionNotFound = errors.New("no matching active work session")
	ErrUnauthorized    = errors.New("authentication required")
	ErrForbidden       = errors.New("operation not permitted for this role")
	ErrValidation      = errors.New("invalid input")

	ErrProjectNotFound   = errors.New("project not found")
	ErrProjectInUse      = errors.New("project has work sessions")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserInUse         = errors.New("user has work sessions or projects")
	ErrEmailTaken        = errors.New("email is already registered")
	ErrInvalidResetToken = errors.New("reset token is invalid or expired")

	ErrInvalidVerificationToken = errors.New("verification link is invalid or expired")
)
