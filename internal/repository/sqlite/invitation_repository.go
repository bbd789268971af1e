package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/maelh/chessmates/internal/logger"
	"github.com/maelh/chessmates/internal/models"
	"github.com/maelh/chessmates/internal/repository"
)

type invitationRepository struct {
	db *sql.DB
}

// NewInvitationRepository creates a new InvitationRepository implementation
func NewInvitationRepository(db *sql.DB) repository.InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Insert(ctx context.Context, inv models.GameInvitation) error {
	log := logger.FromContext(ctx).WithPrefix("invitation_repo")
	log.Debug("inserting invitation: sender=%s, receiver=%s", inv.SenderID, inv.ReceiverID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO game_invitations (id, sender_id, receiver_id, status, created_at)
VALUES (?, ?, ?, ?, ?)
`, inv.ID, inv.SenderID, inv.ReceiverID, inv.Status, inv.CreatedAt)
	if err != nil {
		log.Error("failed to insert invitation: %v", err)
	}
	return err
}

func (r *invitationRepository) Get(ctx context.Context, id string) (*models.GameInvitation, error) {
	var inv models.GameInvitation
	err := r.db.QueryRowContext(ctx, `
SELECT id, sender_id, receiver_id, status, created_at
FROM game_invitations WHERE id = ?
`, id).Scan(&inv.ID, &inv.SenderID, &inv.ReceiverID, &inv.Status, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invitationRepository) FindPending(ctx context.Context, senderID, receiverID string) (*models.GameInvitation, error) {
	query := sqlBuilder.Select("id", "sender_id", "receiver_id", "status", "created_at").
		From("game_invitations").
		Where(squirrel.Eq{
			"sender_id":   senderID,
			"receiver_id": receiverID,
			"status":      models.InvitationPending,
		}).
		Limit(1)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var inv models.GameInvitation
	err = r.db.QueryRowContext(ctx, sqlStr, args...).
		Scan(&inv.ID, &inv.SenderID, &inv.ReceiverID, &inv.Status, &inv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invitationRepository) PendingForReceiver(ctx context.Context, receiverID string) ([]models.ReceivedInvitation, error) {
	log := logger.FromContext(ctx).WithPrefix("invitation_repo")
	log.Debug("listing pending invitations: receiver=%s", receiverID)

	rows, err := r.db.QueryContext(ctx, `
SELECT i.id, i.sender_id, i.receiver_id, i.status, i.created_at,
       u.id, u.name, u.email, u.image, u.created_at
FROM game_invitations i
JOIN users u ON u.id = i.sender_id
WHERE i.receiver_id = ? AND i.status = ?
ORDER BY i.created_at DESC
`, receiverID, models.InvitationPending)
	if err != nil {
		log.Error("failed to list invitations: %v", err)
		return nil, err
	}
	defer rows.Close()

	var invitations []models.ReceivedInvitation
	for rows.Next() {
		var inv models.ReceivedInvitation
		if err := rows.Scan(
			&inv.ID, &inv.SenderID, &inv.ReceiverID, &inv.Status, &inv.CreatedAt,
			&inv.Sender.ID, &inv.Sender.Name, &inv.Sender.Email, &inv.Sender.Image, &inv.Sender.CreatedAt,
		); err != nil {
			log.Error("failed to scan invitation row: %v", err)
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	log.Debug("found %d pending invitations", len(invitations))
	return invitations, rows.Err()
}

// AcceptAndCreateGame flips the invitation to ACCEPTED and creates the
// game plus both my_games rows in one transaction. The status flip is
// guarded on PENDING inside the transaction, so a raced second accept
// affects zero rows and the whole compound transition rolls back.
func (r *invitationRepository) AcceptAndCreateGame(ctx context.Context, invitationID string, game models.Game) error {
	log := logger.FromContext(ctx).WithPrefix("invitation_repo")
	log.Debug("accepting invitation: id=%s, game=%s", invitationID, game.ID)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE game_invitations SET status = ? WHERE id = ? AND status = ?
`, models.InvitationAccepted, invitationID, models.InvitationPending)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return repository.ErrNotPending
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO games (id, player_white_id, player_black_id, status, result, started_at)
VALUES (?, ?, ?, ?, ?, ?)
`, game.ID, game.PlayerWhiteID, game.PlayerBlackID, game.Status, game.Result, game.StartedAt); err != nil {
			return err
		}

		for _, userID := range []string{game.PlayerWhiteID, game.PlayerBlackID} {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO my_games (user_id, game_id, archived) VALUES (?, ?, 0)
`, userID, game.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *invitationRepository) Decline(ctx context.Context, invitationID string) error {
	log := logger.FromContext(ctx).WithPrefix("invitation_repo")
	log.Debug("declining invitation: id=%s", invitationID)

	res, err := r.db.ExecContext(ctx, `
UPDATE game_invitations SET status = ? WHERE id = ? AND status = ?
`, models.InvitationDeclined, invitationID, models.InvitationPending)
	if err != nil {
		log.Error("failed to decline invitation: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return repository.ErrNotPending
	}
	return nil
}
