package http

import (
	"net/http"

	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/service"
)

type startSessionRequest struct {
	ProjectID string `json:"project_id"`
}

type endSessionRequest struct {
	SessionID string `json:"session_id"`
}

type currentSessionResponse struct {
	Session *domain.WorkSession `json:"session"`
}

type locationRequest struct {
	SessionID    string   `json:"session_id"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	Accuracy     *float64 `json:"accuracy"`
	ActivityType *string  `json:"activity_type"`
}

type liveLocationsResponse struct {
	Technicians []domain.LiveLocation `json:"technicians"`
}

func (s *Server) startWorkSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	session, err := s.WorkSessions.StartWorkSession(r.Context(), callerID(r), req.ProjectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) endWorkSession(w http.ResponseWriter, r *http.Request) {
	var req endSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	session, err := s.WorkSessions.EndWorkSession(r.Context(), callerID(r), req.SessionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) currentWorkSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.WorkSessions.CurrentWorkSession(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, currentSessionResponse{Session: session})
}

func (s *Server) updateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Lat == nil || req.Lng == nil {
		writeErrorMessage(w, http.StatusBadRequest, "lat and lng are required")
		return
	}
	loc, err := s.Locations.RecordLocation(r.Context(), callerID(r), service.LocationInput{
		SessionID:    req.SessionID,
		Lat:          *req.Lat,
		Lng:          *req.Lng,
		Accuracy:     req.Accuracy,
		ActivityType: req.ActivityType,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, loc)
}

func (s *Server) liveLocations(w http.ResponseWriter, r *http.Request) {
	live, err := s.Locations.LiveLocations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if live == nil {
		live = []domain.LiveLocation{}
	}
	writeJSON(w, http.StatusOK, liveLocationsResponse{Technicians: live})
}
