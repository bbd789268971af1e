package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/maelh/chessmates/internal/errors"
	"github.com/maelh/chessmates/internal/logger"
	"github.com/maelh/chessmates/internal/models"
	"github.com/maelh/chessmates/internal/repository"
)

// PlayerService handles the player directory and profile details
type PlayerService interface {
	List(ctx context.Context) ([]models.Player, error)
	Profile(ctx context.Context, userID string) (*models.Player, error)
	RatingHistory(ctx context.Context, userID string) ([]models.RatingHistory, error)
	SaveDetails(ctx context.Context, details models.UserDetails) error
	InitRatings(ctx context.Context, rating int) (int, error)
}

type playerService struct {
	userRepo   repository.UserRepository
	ratingRepo repository.RatingRepository
}

// NewPlayerService creates a new PlayerService
func NewPlayerService(userRepo repository.UserRepository, ratingRepo repository.RatingRepository) PlayerService {
	return &playerService{userRepo: userRepo, ratingRepo: ratingRepo}
}

func (s *playerService) List(ctx context.Context) ([]models.Player, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing players")

	players, err := s.userRepo.ListPlayers(ctx)
	if err != nil {
		log.Error("failed to list players: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return players, nil
}

func (s *playerService) Profile(ctx context.Context, userID string) (*models.Player, error) {
	log := logger.FromContext(ctx)
	log.Debug("loading profile: user_id=%s", userID)

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("user", userID)
		}
		log.Error("failed to load user: %v", err)
		return nil, errors.NewInternalError(err)
	}

	details, err := s.userRepo.GetDetails(ctx, userID)
	if err != nil {
		log.Error("failed to load details: %v", err)
		return nil, errors.NewInternalError(err)
	}

	current, err := s.ratingRepo.Current(ctx, userID)
	if err != nil {
		log.Error("failed to load rating: %v", err)
		return nil, errors.NewInternalError(err)
	}

	p := models.Player{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Image:   user.Image,
		Details: details,
	}
	if current != nil {
		elo := current.Rating
		p.Elo = &elo
	}
	return &p, nil
}

func (s *playerService) RatingHistory(ctx context.Context, userID string) ([]models.RatingHistory, error) {
	history, err := s.ratingRepo.History(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load rating history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return history, nil
}

func (s *playerService) SaveDetails(ctx context.Context, details models.UserDetails) error {
	log := logger.FromContext(ctx)
	details.Username = strings.ToLower(strings.TrimSpace(details.Username))
	log.Debug("saving details: user_id=%s, username=%s", details.UserID, details.Username)

	if details.Username == "" {
		return errors.NewValidationError("username", "cannot be empty")
	}

	if err := s.userRepo.UpsertDetails(ctx, details); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return errors.NewValidationError("username", "already taken")
		}
		log.Error("failed to save details: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

// InitRatings backfills an initial ledger row for every user without
// one and returns how many were seeded.
func (s *playerService) InitRatings(ctx context.Context, rating int) (int, error) {
	log := logger.FromContext(ctx)

	ids, err := s.ratingRepo.UsersWithoutRating(ctx)
	if err != nil {
		log.Error("failed to find unrated users: %v", err)
		return 0, errors.NewInternalError(err)
	}

	for _, id := range ids {
		if err := s.ratingRepo.Append(ctx, id, rating); err != nil {
			log.Error("failed to seed rating for %s: %v", id, err)
			return 0, errors.NewInternalError(err)
		}
	}

	log.Info("seeded initial rating for %d users", len(ids))
	return len(ids), nil
}
