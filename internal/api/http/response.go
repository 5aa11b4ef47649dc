package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/service"
)

const maxBodyBytes = 1 << 20

const (
	msgInvalidCredentials = "invalid credentials"
	msgInternal           = "operation failed, please retry"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as a generic retryable failure.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountInactive),
		errors.Is(err, service.ErrAccountBlocked):
		writeErrorMessage(w, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, service.ErrUnauthorized):
		writeErrorMessage(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, service.ErrForbidden):
		writeErrorMessage(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidResetToken),
		errors.Is(err, service.ErrInvalidVerificationToken):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrProjectNotFound),
		errors.Is(err, service.ErrUserNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionConflict),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrProjectInUse),
		errors.Is(err, service.ErrUserInUse):
		writeErrorMessage(w, http.StatusConflict, err.Error())
	default:
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, msgInternal)
	}
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: malformed JSON body", service.ErrValidation)
	}
	return nil
}

func validationError(err error) error {
	return fmt.Errorf("%w: %v", service.ErrValidation, err)
}
