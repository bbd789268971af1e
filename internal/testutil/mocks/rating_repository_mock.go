package mocks

import (
	"context"

	"github.com/maelh/chessmates/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockRatingRepository is a mock implementation of repository.RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Append(ctx context.Context, userID string, rating int) error {
	args := m.Called(ctx, userID, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) Current(ctx context.Context, userID string) (*models.RatingHistory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RatingHistory), args.Error(1)
}

func (m *MockRatingRepository) History(ctx context.Context, userID string) ([]models.RatingHistory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RatingHistory), args.Error(1)
}

func (m *MockRatingRepository) UsersWithoutRating(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
