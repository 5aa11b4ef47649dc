package http

import (
	"net/http"
	"strings"
	"time"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/security"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Request("http", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("Panic in HTTP handler", "method", r.Method, "path", r.URL.Path, "panic", p)
				writeErrorMessage(w, http.StatusInternalServerError, msgInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// authenticate validates the bearer token and stores its claims in the request
// context. A missing or bad token leaves the context without claims; the role
// gate turns that into 401.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := s.Tokens.ValidateToken(token)
		if err != nil {
			logger.Debug("Rejected session token", "path", r.URL.Path, "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if s.Validator != nil {
			if err := s.Validator.Validate(r.Context(), claims); err != nil {
				writeError(w, r, err)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// RequireRoles applies the role gate for one route. It expects authenticate
// to have run first.
func RequireRoles(roles []domain.Role, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch security.Authorize(ClaimsFromContext(r.Context()), roles...) {
		case security.Authorized:
			next.ServeHTTP(w, r)
		case security.Unauthorized:
			writeErrorMessage(w, http.StatusUnauthorized, "unauthorized")
		default:
			writeErrorMessage(w, http.StatusForbidden, "forbidden")
		}
	})
}
