package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/maelh/chessmates/internal/models"
)

type moveRequest struct {
	From      string `json:"from" validate:"required,len=2"`
	To        string `json:"to" validate:"required,len=2"`
	SeenMoves int    `json:"seen_moves" validate:"min=0"`
}

type moveResponse struct {
	Move *models.Move `json:"move"`
	Game *models.Game `json:"game"`
}

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	summaries, err := s.GameService.Summaries(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleOngoingGame(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	detail, err := s.GameService.Ongoing(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if detail == nil {
		respondJSON(w, http.StatusNoContent, nil)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleGameDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.GameService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handlePlayMove(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	move, game, err := s.GameService.PlayMove(r.Context(), user.ID, chi.URLParam(r, "id"), req.From, req.To, req.SeenMoves)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, moveResponse{Move: move, Game: game})
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	game, err := s.GameService.Resign(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, game)
}

func (s *Server) handleArchiveGame(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	if err := s.GameService.Archive(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
