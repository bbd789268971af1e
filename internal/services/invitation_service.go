package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	stderrors "errors"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/maelh/chessmates/internal/errors"
	"github.com/maelh/chessmates/internal/logger"
	"github.com/maelh/chessmates/internal/models"
	"github.com/maelh/chessmates/internal/repository"
)

// InviteResult reports whether a new invitation was created or an
// existing pending one was found. A duplicate invite is a soft no-op,
// not an error.
type InviteResult struct {
	AlreadyInvited bool                   `json:"already_invited"`
	Invitation     *models.GameInvitation `json:"invitation,omitempty"`
}

// InvitationService handles the matchmaking invitation lifecycle
type InvitationService interface {
	Invite(ctx context.Context, senderID, receiverID string) (*InviteResult, error)
	Received(ctx context.Context, userID string) ([]models.ReceivedInvitation, error)
	Accept(ctx context.Context, userID, invitationID string) (*models.Game, error)
	Decline(ctx context.Context, userID, invitationID string) error
}

type invitationService struct {
	invitationRepo repository.InvitationRepository
	userRepo       repository.UserRepository
}

// NewInvitationService creates a new InvitationService
func NewInvitationService(invitationRepo repository.InvitationRepository, userRepo repository.UserRepository) InvitationService {
	return &invitationService{invitationRepo: invitationRepo, userRepo: userRepo}
}

func (s *invitationService) Invite(ctx context.Context, senderID, receiverID string) (*InviteResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("invite: sender=%s, receiver=%s", senderID, receiverID)

	if senderID == receiverID {
		return nil, errors.NewValidationError("receiver", "cannot invite yourself")
	}

	if _, err := s.userRepo.Get(ctx, receiverID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("user", receiverID)
		}
		log.Error("failed to load receiver: %v", err)
		return nil, errors.NewInternalError(err)
	}

	existing, err := s.invitationRepo.FindPending(ctx, senderID, receiverID)
	if err != nil {
		log.Error("failed to check pending invitation: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		log.Debug("already invited: %s -> %s", senderID, receiverID)
		return &InviteResult{AlreadyInvited: true, Invitation: existing}, nil
	}

	inv := models.GameInvitation{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.InvitationPending,
		CreatedAt:  time.Now(),
	}
	if err := s.invitationRepo.Insert(ctx, inv); err != nil {
		log.Error("failed to insert invitation: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("invitation created: id=%s", inv.ID)
	return &InviteResult{Invitation: &inv}, nil
}

func (s *invitationService) Received(ctx context.Context, userID string) ([]models.ReceivedInvitation, error) {
	invitations, err := s.invitationRepo.PendingForReceiver(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list invitations: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return invitations, nil
}

func (s *invitationService) Accept(ctx context.Context, userID, invitationID string) (*models.Game, error) {
	log := logger.FromContext(ctx)
	log.Debug("accept invitation: id=%s, user=%s", invitationID, userID)

	inv, err := s.load(ctx, userID, invitationID)
	if err != nil {
		return nil, err
	}

	whiteID, blackID := inv.SenderID, inv.ReceiverID
	if coinFlip() {
		whiteID, blackID = blackID, whiteID
	}

	game := models.Game{
		ID:            uuid.NewString(),
		PlayerWhiteID: whiteID,
		PlayerBlackID: blackID,
		Status:        models.GameOngoing,
		Result:        models.ResultUndecided,
		StartedAt:     time.Now(),
	}

	if err := s.invitationRepo.AcceptAndCreateGame(ctx, invitationID, game); err != nil {
		if stderrors.Is(err, repository.ErrNotPending) {
			// A concurrent accept/decline got there first.
			return nil, errors.NewBadRequestError("invalid invitation")
		}
		log.Error("failed to accept invitation: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("invitation accepted: id=%s, game=%s, white=%s, black=%s", invitationID, game.ID, whiteID, blackID)
	return &game, nil
}

func (s *invitationService) Decline(ctx context.Context, userID, invitationID string) error {
	log := logger.FromContext(ctx)
	log.Debug("decline invitation: id=%s, user=%s", invitationID, userID)

	if _, err := s.load(ctx, userID, invitationID); err != nil {
		return err
	}

	if err := s.invitationRepo.Decline(ctx, invitationID); err != nil {
		if stderrors.Is(err, repository.ErrNotPending) {
			return errors.NewBadRequestError("invalid invitation")
		}
		log.Error("failed to decline invitation: %v", err)
		return errors.NewInternalError(err)
	}

	log.Info("invitation declined: id=%s", invitationID)
	return nil
}

// load fetches the invitation and checks the acting user is its
// receiver and it is still pending. The pending check here only gives
// the fast, friendly error; the authoritative guard lives in the
// conditional update.
func (s *invitationService) load(ctx context.Context, userID, invitationID string) (*models.GameInvitation, error) {
	inv, err := s.invitationRepo.Get(ctx, invitationID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("invitation", invitationID)
		}
		logger.FromContext(ctx).Error("failed to load invitation: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if inv.ReceiverID != userID {
		return nil, errors.NewForbiddenError("not the receiver of this invitation")
	}
	if inv.Status != models.InvitationPending {
		return nil, errors.NewBadRequestError("invalid invitation")
	}
	return inv, nil
}

func coinFlip() bool {
	n, err := rand.Int(rand.Reader, big.NewInt(2))
	if err != nil {
		return false
	}
	return n.Int64() == 1
}
