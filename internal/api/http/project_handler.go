package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/service"
)

type projectRequest struct {
	ClientName           *string  `json:"client_name"`
	ClientPhone          *string  `json:"client_phone"`
	Address              *string  `json:"address"`
	Lat                  *float64 `json:"lat"`
	Lng                  *float64 `json:"lng"`
	Description          *string  `json:"description"`
	EstimatedCost        *float64 `json:"estimated_cost"`
	Status               *string  `json:"status"`
	AssignedTechnicianID *string  `json:"assigned_technician_id"`
}

type projectStatusRequest struct {
	Status string `json:"status"`
}

func (req projectRequest) toInput() (service.ProjectInput, error) {
	in := service.ProjectInput{
		ClientName:           req.ClientName,
		ClientPhone:          req.ClientPhone,
		Address:              req.Address,
		Lat:                  req.Lat,
		Lng:                  req.Lng,
		Description:          req.Description,
		EstimatedCost:        req.EstimatedCost,
		AssignedTechnicianID: req.AssignedTechnicianID,
	}
	if req.Status != nil {
		st, err := parseStatus(*req.Status)
		if err != nil {
			return in, err
		}
		in.Status = &st
	}
	return in, nil
}

func parseStatus(s string) (domain.ProjectStatus, error) {
	st, err := domain.ParseProjectStatus(s)
	if err != nil {
		return "", validationError(err)
	}
	return st, nil
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	var filter domain.ProjectFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, err := parseStatus(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.Status = &st
	}
	projects, err := s.Projects.ListProjects(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(projects))
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}
	project, err := s.Projects.CreateProject(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.Projects.GetProject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}
	project, err := s.Projects.UpdateProject(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.Projects.DeleteProject(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) assignedProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.Projects.ListAssignedProjects(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(projects))
}

func (s *Server) updateProjectStatus(w http.ResponseWriter, r *http.Request) {
	var req projectStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	st, err := parseStatus(req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	project, err := s.Projects.UpdateProjectStatus(r.Context(), callerID(r), mux.Vars(r)["id"], st)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
