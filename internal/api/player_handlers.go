package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/maelh/chessmates/internal/models"
)

type detailsRequest struct {
	Username string `json:"username" validate:"required,min=1,max=40"`
	Country  string `json:"country" validate:"omitempty,max=60"`
	Flag     string `json:"flag" validate:"omitempty,max=8"`
	Bio      string `json:"bio" validate:"omitempty,max=500"`
}

type initRatingsRequest struct {
	Rating int `json:"rating" validate:"omitempty,min=1"`
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.PlayerService.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, players)
}

func (s *Server) handlePlayerProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.PlayerService.Profile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handlePlayerRatings(w http.ResponseWriter, r *http.Request) {
	history, err := s.PlayerService.RatingHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

func (s *Server) handleSaveDetails(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req detailsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	details := models.UserDetails{
		UserID:   user.ID,
		Username: req.Username,
		Country:  req.Country,
		Flag:     req.Flag,
		Bio:      req.Bio,
	}
	if err := s.PlayerService.SaveDetails(r.Context(), details); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, details)
}

func (s *Server) handleInitRatings(w http.ResponseWriter, r *http.Request) {
	var req initRatingsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Rating == 0 {
		req.Rating = s.InitialRating
	}

	seeded, err := s.PlayerService.InitRatings(r.Context(), req.Rating)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"seeded": seeded})
}
