package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/service"
)

type createUserRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

// updateUserRequest has no role; a role sent by the client is dropped.
type updateUserRequest struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Status     *string `json:"status"`
	Password   *string `json:"password"`
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	var role *domain.Role
	if raw := r.URL.Query().Get("role"); raw != "" {
		parsed, err := domain.ParseRole(raw)
		if err != nil {
			writeError(w, r, validationError(err))
			return
		}
		role = &parsed
	}
	users, err := s.Users.ListUsers(r.Context(), role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(users))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.Users.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeError(w, r, validationError(err))
		return
	}
	user, err := s.Users.CreateUser(r.Context(), service.CreateUserInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Department: req.Department,
		Role:       role,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in := service.UpdateUserInput{
		Name:       req.Name,
		Department: req.Department,
		Password:   req.Password,
	}
	if req.Status != nil {
		st, err := domain.ParseUserStatus(*req.Status)
		if err != nil {
			writeError(w, r, validationError(err))
			return
		}
		in.Status = &st
	}
	user, err := s.Users.UpdateUser(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.Users.DeleteUser(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) dashboardMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.Dashboard.Metrics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}
