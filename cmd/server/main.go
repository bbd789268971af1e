package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maelh/chessmates/internal/api"
	"github.com/maelh/chessmates/internal/auth"
	"github.com/maelh/chessmates/internal/config"
	"github.com/maelh/chessmates/internal/db"
	"github.com/maelh/chessmates/internal/logger"
	"github.com/maelh/chessmates/internal/repository/sqlite"
	"github.com/maelh/chessmates/internal/services"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("ChessMates Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("token_ttl_hours=%d", cfg.TokenTTLHours)
	log.Debug("initial_rating=%d", cfg.InitialRating)
	log.Debug("elo_k_factor=%d", cfg.EloKFactor)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize repositories
	userRepo := sqlite.NewUserRepository(database)
	ratingRepo := sqlite.NewRatingRepository(database)
	invitationRepo := sqlite.NewInvitationRepository(database)
	gameRepo := sqlite.NewGameRepository(database)

	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)

	// Initialize services
	authService := services.NewAuthService(userRepo, ratingRepo, tokens, cfg.InitialRating)
	playerService := services.NewPlayerService(userRepo, ratingRepo)
	invitationService := services.NewInvitationService(invitationRepo, userRepo)
	gameService := services.NewGameService(gameRepo, ratingRepo, cfg.EloKFactor, cfg.InitialRating)

	srv := &api.Server{
		AuthService:       authService,
		PlayerService:     playerService,
		InvitationService: invitationService,
		GameService:       gameService,
		InitialRating:     cfg.InitialRating,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("ChessMates Server Stopped")
	log.Info("===========================================")
}
