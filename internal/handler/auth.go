package handler

import (
	"net/http"

	"github.com/hclin/fleetflow/backend/internal/domain"
)

// LoginRequest is the JSON body accepted by POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

// LoginResponse carries the signed token and the authenticated user.
type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Login handles POST /auth/login. Wrong PIN and unknown username both come
// back as 401 with the same body.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if err := decodeJSON(r, &body); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	token, user, err := s.auth.Login(r.Context(), body.Username, body.PIN)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: user})
}
