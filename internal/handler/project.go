package handler

import (
	"errors"
	"net/http"

	"github.com/hclin/fleetflow/backend/internal/domain"
)

// ProjectRequest is the JSON body accepted by POST /projects and
// PUT /projects/{id}.
type ProjectRequest struct {
	Name string `json:"name"`
}

// CreateProject handles POST /projects (admin).
func (s *Server) CreateProject(w http.ResponseWriter, r *http.Request) {
	var body ProjectRequest
	if err := decodeJSON(r, &body); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	created, err := s.projects.Create(r.Context(), domain.Project{Name: body.Name})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListProjects handles GET /projects.
func (s *Server) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// UpdateProject handles PUT /projects/{id} (admin).
func (s *Server) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondNotFound(w, "project not found")
		return
	}
	var body ProjectRequest
	if err := decodeJSON(r, &body); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	updated, err := s.projects.Update(r.Context(), domain.Project{ID: id, Name: body.Name})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "project not found")
			return
		}
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteProject handles DELETE /projects/{id} (admin).
func (s *Server) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondNotFound(w, "project not found")
		return
	}
	if err := s.projects.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "project not found")
			return
		}
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
