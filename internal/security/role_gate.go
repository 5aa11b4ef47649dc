package security

import (
	"net/http"

	"fieldops-backend/internal/domain"
)

// Decision is the outcome of a role gate check.
type Decision int

const (
	Authorized Decision = iota
	Unauthorized
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// HTTPStatus maps the decision onto the status code returned to clients.
func (d Decision) HTTPStatus() int {
	switch d {
	case Authorized:
		return http.StatusOK
	case Forbidden:
		return http.StatusForbidden
	}
	return http.StatusUnauthorized
}

// Authorize restricts an operation to the allowed roles. It is evaluated per
// request and keeps no state between calls.
func Authorize(claims *SessionClaims, allowed ...domain.Role) Decision {
	if claims == nil || claims.UserID == "" {
		return Unauthorized
	}
	if !claims.Role.Valid() {
		return Forbidden
	}
	for _, r := range allowed {
		if claims.Role == r {
			return Authorized
		}
	}
	return Forbidden
}
