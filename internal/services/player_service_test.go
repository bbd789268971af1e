package services_test

import (
	"context"
	"database/sql"
	"testing"

	apperrors "github.com/maelh/chessmates/internal/errors"
	"github.com/maelh/chessmates/internal/models"
	"github.com/maelh/chessmates/internal/repository"
	"github.com/maelh/chessmates/internal/services"
	"github.com/maelh/chessmates/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlayerService(t *testing.T) (services.PlayerService, *mocks.MockUserRepository, *mocks.MockRatingRepository) {
	t.Helper()
	userRepo := new(mocks.MockUserRepository)
	ratingRepo := new(mocks.MockRatingRepository)
	return services.NewPlayerService(userRepo, ratingRepo), userRepo, ratingRepo
}

func TestProfile(t *testing.T) {
	svc, userRepo, ratingRepo := newPlayerService(t)
	ctx := context.Background()

	userRepo.On("Get", ctx, "u1").Return(&models.User{ID: "u1", Name: "Alice"}, nil)
	userRepo.On("GetDetails", ctx, "u1").Return(&models.UserDetails{UserID: "u1", Username: "alice"}, nil)
	ratingRepo.On("Current", ctx, "u1").Return(&models.RatingHistory{UserID: "u1", Rating: 1016}, nil)

	p, err := svc.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	require.NotNil(t, p.Elo)
	assert.Equal(t, 1016, *p.Elo)
	require.NotNil(t, p.Details)
	assert.Equal(t, "alice", p.Details.Username)
}

func TestProfile_NoRatingYet(t *testing.T) {
	svc, userRepo, ratingRepo := newPlayerService(t)
	ctx := context.Background()

	userRepo.On("Get", ctx, "u1").Return(&models.User{ID: "u1"}, nil)
	userRepo.On("GetDetails", ctx, "u1").Return(nil, nil)
	ratingRepo.On("Current", ctx, "u1").Return(nil, nil)

	p, err := svc.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, p.Elo)
	assert.Nil(t, p.Details)
}

func TestProfile_NotFound(t *testing.T) {
	svc, userRepo, _ := newPlayerService(t)
	ctx := context.Background()

	userRepo.On("Get", ctx, "ghost").Return(nil, sql.ErrNoRows)

	_, err := svc.Profile(ctx, "ghost")
	requireAppCode(t, err, apperrors.ErrCodeNotFound)
}

func TestSaveDetails_NormalizesUsername(t *testing.T) {
	svc, userRepo, _ := newPlayerService(t)
	ctx := context.Background()

	userRepo.On("UpsertDetails", ctx, models.UserDetails{UserID: "u1", Username: "alice"}).Return(nil)

	err := svc.SaveDetails(ctx, models.UserDetails{UserID: "u1", Username: "  Alice  "})
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestSaveDetails_EmptyUsername(t *testing.T) {
	svc, _, _ := newPlayerService(t)

	err := svc.SaveDetails(context.Background(), models.UserDetails{UserID: "u1", Username: "   "})
	requireAppCode(t, err, apperrors.ErrCodeValidation)
}

func TestSaveDetails_UsernameTaken(t *testing.T) {
	svc, userRepo, _ := newPlayerService(t)
	ctx := context.Background()

	userRepo.On("UpsertDetails", ctx, models.UserDetails{UserID: "u1", Username: "taken"}).Return(repository.ErrDuplicate)

	err := svc.SaveDetails(ctx, models.UserDetails{UserID: "u1", Username: "taken"})
	requireAppCode(t, err, apperrors.ErrCodeValidation)
}

func TestInitRatings(t *testing.T) {
	svc, _, ratingRepo := newPlayerService(t)
	ctx := context.Background()

	ratingRepo.On("UsersWithoutRating", ctx).Return([]string{"u1", "u2"}, nil)
	ratingRepo.On("Append", ctx, "u1", 1000).Return(nil)
	ratingRepo.On("Append", ctx, "u2", 1000).Return(nil)

	count, err := svc.InitRatings(ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	ratingRepo.AssertExpectations(t)
}

func TestInitRatings_NothingToSeed(t *testing.T) {
	svc, _, ratingRepo := newPlayerService(t)
	ctx := context.Background()

	ratingRepo.On("UsersWithoutRating", ctx).Return([]string{}, nil)

	count, err := svc.InitRatings(ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
