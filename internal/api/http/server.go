package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"fieldops-backend/internal/config"
	"fieldops-backend/internal/security"
	"fieldops-backend/internal/service"
)

// Deps carries everything the HTTP surface calls into.
type Deps struct {
	Auth         service.AuthService
	WorkSessions service.WorkSessionService
	Locations    service.LocationService
	Projects     service.ProjectService
	Users        service.UserService
	Dashboard    service.DashboardService

	Tokens security.TokenManager
	// Validator re-checks claims against the user store. Nil trusts the token.
	Validator service.SessionValidator
	// Ping reports backend health for /healthz. Nil always reports ok.
	Ping func(ctx context.Context) error
}

type Server struct {
	Deps
}

// NewRouter builds the HTTP API. Every route's role gate comes from
// config.EndpointSecurityConfig.
func NewRouter(deps Deps) http.Handler {
	s := &Server{Deps: deps}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.handle(r, http.MethodGet, "/healthz", s.health)

	s.handle(r, http.MethodPost, "/api/auth/login", s.login)
	s.handle(r, http.MethodPost, "/api/auth/register", s.register)
	s.handle(r, http.MethodPost, "/api/auth/forgot-password", s.forgotPassword)
	s.handle(r, http.MethodPost, "/api/auth/reset-password", s.resetPassword)
	s.handle(r, http.MethodGet, "/api/auth/verify-email", s.verifyEmail)
	s.handle(r, http.MethodPost, "/api/auth/resend-verification", s.resendVerification)
	s.handle(r, http.MethodGet, "/api/auth/check-verified", s.checkVerified)
	s.handle(r, http.MethodPost, "/api/tech/check-block", s.checkBlock)

	s.handle(r, http.MethodPost, "/api/work-sessions/start", s.startWorkSession)
	s.handle(r, http.MethodPost, "/api/work-sessions/end", s.endWorkSession)
	s.handle(r, http.MethodGet, "/api/work-sessions/current", s.currentWorkSession)
	s.handle(r, http.MethodPost, "/api/location/update", s.updateLocation)
	s.handle(r, http.MethodGet, "/api/technicians/live-locations", s.liveLocations)

	// "assigned" must be registered before the {id} routes.
	s.handle(r, http.MethodGet, "/api/projects/assigned", s.assignedProjects)
	s.handle(r, http.MethodPatch, "/api/projects/{id}/status", s.updateProjectStatus)
	s.handle(r, http.MethodGet, "/api/projects", s.listProjects)
	s.handle(r, http.MethodPost, "/api/projects", s.createProject)
	s.handle(r, http.MethodGet, "/api/projects/{id}", s.getProject)
	s.handle(r, http.MethodPatch, "/api/projects/{id}", s.updateProject)
	s.handle(r, http.MethodDelete, "/api/projects/{id}", s.deleteProject)

	s.handle(r, http.MethodGet, "/api/users", s.listUsers)
	s.handle(r, http.MethodPost, "/api/users", s.createUser)
	s.handle(r, http.MethodGet, "/api/users/{id}", s.getUser)
	s.handle(r, http.MethodPatch, "/api/users/{id}", s.updateUser)
	s.handle(r, http.MethodDelete, "/api/users/{id}", s.deleteUser)

	s.handle(r, http.MethodGet, "/api/dashboard/metrics", s.dashboardMetrics)

	return recoveryMiddleware(loggingMiddleware(r))
}

func (s *Server) handle(r *mux.Router, method, path string, h http.HandlerFunc) {
	access := config.GetEndpointAccess(method, path)
	var handler http.Handler = h
	if !access.Public() {
		handler = s.authenticate(RequireRoles(access.Roles, handler))
	}
	r.Handle(path, handler).Methods(method)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.Ping != nil {
		if err := s.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// callerID is only valid behind RequireRoles.
func callerID(r *http.Request) string {
	if claims := ClaimsFromContext(r.Context()); claims != nil {
		return claims.UserID
	}
	return ""
}
