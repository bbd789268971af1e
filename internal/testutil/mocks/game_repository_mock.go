package mocks

import (
	"context"

	"github.com/maelh/chessmates/internal/models"
	"github.com/maelh/chessmates/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockGameRepository is a mock implementation of repository.GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Get(ctx context.Context, id string) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) Detail(ctx context.Context, id string) (*models.GameDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameDetail), args.Error(1)
}

func (m *MockGameRepository) OngoingForUser(ctx context.Context, userID string) (*models.GameDetail, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameDetail), args.Error(1)
}

func (m *MockGameRepository) AppendMove(ctx context.Context, move models.Move, finish *repository.GameFinish) error {
	args := m.Called(ctx, move, finish)
	return args.Error(0)
}

func (m *MockGameRepository) Finish(ctx context.Context, gameID string, finish repository.GameFinish) (bool, error) {
	args := m.Called(ctx, gameID, finish)
	return args.Bool(0), args.Error(1)
}

func (m *MockGameRepository) Archive(ctx context.Context, userID, gameID string) error {
	args := m.Called(ctx, userID, gameID)
	return args.Error(0)
}

func (m *MockGameRepository) Summaries(ctx context.Context, userID string) ([]models.GameSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GameSummary), args.Error(1)
}
