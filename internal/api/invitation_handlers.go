package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type inviteRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
}

func (s *Server) handleReceivedInvitations(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	invitations, err := s.InvitationService.Received(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, invitations)
}

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.InvitationService.Invite(r.Context(), user.ID, req.ReceiverID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyInvited {
		status = http.StatusOK
	}
	respondJSON(w, status, result)
}

func (s *Server) handleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	game, err := s.InvitationService.Accept(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, game)
}

func (s *Server) handleDeclineInvitation(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	if err := s.InvitationService.Decline(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
