package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bcarsten/takeoffvc/internal/versions"
)

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	entries, tabs, err := s.service.List(r.Context())
	if err != nil {
		jsonError(w, "failed to list versions: "+err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"versions": entries,
		"tabs":     tabs,
	})
}

func (s *Server) handleCreateVersion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectName string `json:"project_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ProjectName == "" {
		jsonError(w, "project_name is required", http.StatusBadRequest)
		return
	}

	created, err := s.service.Create(r.Context(), req.ProjectName)
	if err != nil {
		s.operationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDuplicateVersion(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req struct {
		Track bool `json:"track"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	dup, err := s.service.Duplicate(r.Context(), name, req.Track)
	if err != nil {
		s.operationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"name":    dup.Name,
		"tab_id":  dup.TabID,
		"tracked": req.Track,
	})
}

func (s *Server) handleActivateVersion(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.service.Activate(r.Context(), name); err != nil {
		s.operationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"active": name})
}

func (s *Server) handleRenameVersion(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req struct {
		NewName string `json:"new_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.service.Rename(r.Context(), name, req.NewName); err != nil {
		s.operationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": req.NewName})
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	status, err := versions.ParseStatus(req.Status)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.service.SetStatus(r.Context(), name, status); err != nil {
		s.operationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "status": status})
}

func (s *Server) handleDeleteVersion(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	force := r.URL.Query().Get("force") == "true"

	result, err := s.service.Delete(r.Context(), name, force)
	if err != nil {
		s.operationError(w, err)
		return
	}
	// Refusals are structured results, not errors: the reason goes to the
	// caller as-is.
	writeJSON(w, http.StatusOK, result)
}

// operationError maps the engine's error taxonomy to HTTP statuses.
func (s *Server) operationError(w http.ResponseWriter, err error) {
	var precondition *versions.PreconditionError
	switch {
	case errors.Is(err, versions.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &precondition):
		jsonError(w, precondition.Reason, http.StatusConflict)
	default:
		jsonError(w, err.Error(), http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
