package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/me", s.handleMe)
			r.Delete("/me", s.handleDeleteAccount)
			r.Put("/me/details", s.handleSaveDetails)

			r.Get("/players", s.handlePlayers)
			r.Get("/players/{id}", s.handlePlayerProfile)
			r.Get("/players/{id}/ratings", s.handlePlayerRatings)
			r.Post("/ratings/init", s.handleInitRatings)

			r.Get("/invitations", s.handleReceivedInvitations)
			r.Post("/invitations", s.handleInvite)
			r.Post("/invitations/{id}/accept", s.handleAcceptInvitation)
			r.Post("/invitations/{id}/decline", s.handleDeclineInvitation)

			r.Get("/games", s.handleMyGames)
			r.Get("/games/ongoing", s.handleOngoingGame)
			r.Get("/games/{id}", s.handleGameDetail)
			r.Post("/games/{id}/moves", s.handlePlayMove)
			r.Post("/games/{id}/resign", s.handleResign)
			r.Post("/games/{id}/archive", s.handleArchiveGame)
		})
	})

	return r
}
