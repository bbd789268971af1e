package api

import (
	"net/http"
	"time"

	"github.com/maelh/chessmates/internal/logger"
	"github.com/maelh/chessmates/internal/models"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.AuthService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	token, expiresAt, user, err := s.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *user,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	profile, err := s.PlayerService.Profile(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	log := logger.FromContext(r.Context())
	log.Info("account deletion requested: id=%s", user.ID)

	if err := s.AuthService.DeleteAccount(r.Context(), user.ID); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
