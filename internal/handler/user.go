package handler

import (
	"errors"
	"net/http"

	"github.com/hclin/fleetflow/backend/internal/domain"
)

// UserRequest is the JSON body accepted by POST /users and PUT /users/{id}.
// On update an empty pin leaves the stored PIN unchanged.
type UserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	PIN      string `json:"pin"`
}

// CreateUser handles POST /users (admin).
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body UserRequest
	if err := decodeJSON(r, &body); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	created, err := s.users.Create(r.Context(), requestToUser(body), body.PIN)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListUsers handles GET /users (admin).
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUser handles GET /users/{id} (admin).
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondNotFound(w, "user not found")
		return
	}
	u, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "user not found")
			return
		}
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateUser handles PUT /users/{id} (admin).
func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondNotFound(w, "user not found")
		return
	}
	var body UserRequest
	if err := decodeJSON(r, &body); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	u := requestToUser(body)
	u.ID = id

	updated, err := s.users.Update(r.Context(), u, body.PIN)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "user not found")
			return
		}
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteUser handles DELETE /users/{id} (admin).
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondNotFound(w, "user not found")
		return
	}
	if err := s.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "user not found")
			return
		}
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func requestToUser(body UserRequest) domain.User {
	return domain.User{
		Username: body.Username,
		Name:     body.Name,
		Role:     domain.Role(body.Role),
	}
}
