package mocks

import (
	"context"

	"github.com/maelh/chessmates/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockInvitationRepository is a mock implementation of repository.InvitationRepository
type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) Insert(ctx context.Context, inv models.GameInvitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvitationRepository) Get(ctx context.Context, id string) (*models.GameInvitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameInvitation), args.Error(1)
}

func (m *MockInvitationRepository) FindPending(ctx context.Context, senderID, receiverID string) (*models.GameInvitation, error) {
	args := m.Called(ctx, senderID, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameInvitation), args.Error(1)
}

func (m *MockInvitationRepository) PendingForReceiver(ctx context.Context, receiverID string) ([]models.ReceivedInvitation, error) {
	args := m.Called(ctx, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReceivedInvitation), args.Error(1)
}

func (m *MockInvitationRepository) AcceptAndCreateGame(ctx context.Context, invitationID string, game models.Game) error {
	args := m.Called(ctx, invitationID, game)
	return args.Error(0)
}

func (m *MockInvitationRepository) Decline(ctx context.Context, invitationID string) error {
	args := m.Called(ctx, invitationID)
	return args.Error(0)
}
