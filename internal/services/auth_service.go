package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maelh/chessmates/internal/auth"
	"github.com/maelh/chessmates/internal/errors"
	"github.com/maelh/chessmates/internal/logger"
	"github.com/maelh/chessmates/internal/models"
	"github.com/maelh/chessmates/internal/repository"
)

// AuthService handles registration, login and session resolution
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, time.Time, *models.User, error)
	UserFromToken(ctx context.Context, token string) (*models.User, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type authService struct {
	userRepo      repository.UserRepository
	ratingRepo    repository.RatingRepository
	tokens        *auth.TokenManager
	initialRating int
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, ratingRepo repository.RatingRepository, tokens *auth.TokenManager, initialRating int) AuthService {
	return &authService{
		userRepo:      userRepo,
		ratingRepo:    ratingRepo,
		tokens:        tokens,
		initialRating: initialRating,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	log := logger.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))
	log.Debug("registering user: email=%s", email)

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password: %v", err)
		return nil, errors.NewInternalError(err)
	}

	user := models.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.Insert(ctx, user, hash); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewValidationError("email", "already registered")
		}
		log.Error("failed to insert user: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// Seed the rating ledger so the player shows up on the board with
	// a current rating from day one.
	if err := s.ratingRepo.Append(ctx, user.ID, s.initialRating); err != nil {
		log.Error("failed to seed rating for user %s: %v", user.ID, err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("user registered: id=%s", user.ID)
	return &user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, time.Time, *models.User, error) {
	log := logger.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))
	log.Debug("login attempt: email=%s", email)

	hash, err := s.userRepo.PasswordHash(ctx, email)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, nil, errors.NewUnauthorizedError("invalid credentials")
		}
		log.Error("failed to load credentials: %v", err)
		return "", time.Time{}, nil, errors.NewInternalError(err)
	}
	if !auth.CheckPassword(hash, password) {
		log.Warn("bad password for %s", email)
		return "", time.Time{}, nil, errors.NewUnauthorizedError("invalid credentials")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		log.Error("failed to load user: %v", err)
		return "", time.Time{}, nil, errors.NewInternalError(err)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		log.Error("failed to issue token: %v", err)
		return "", time.Time{}, nil, errors.NewInternalError(err)
	}

	log.Info("user logged in: id=%s", user.ID)
	return token, expiresAt, user, nil
}

func (s *authService) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, errors.NewUnauthorizedError("invalid or expired session")
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			// Token outlived the account.
			return nil, errors.NewUnauthorizedError("invalid or expired session")
		}
		return nil, errors.NewInternalError(err)
	}
	return user, nil
}

func (s *authService) DeleteAccount(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)
	log.Info("deleting account: id=%s", userID)

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("user", userID)
		}
		log.Error("failed to delete account: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
