package repository

import (
	"context"
	"errors"
	"time"

	"github.com/maelh/chessmates/internal/models"
)

// Sentinel errors repositories translate storage-level conflicts into.
var (
	// ErrDuplicate reports a unique-constraint violation (email, username).
	ErrDuplicate = errors.New("duplicate value")
	// ErrNotPending reports a state transition attempted on an
	// invitation that is no longer PENDING.
	ErrNotPending = errors.New("invitation is not pending")
	// ErrMoveConflict reports that another append claimed the move
	// number first; the caller must refresh and retry.
	ErrMoveConflict = errors.New("move number already taken")
)

// UserRepository manages users, credentials and public details.
type UserRepository interface {
	Insert(ctx context.Context, user models.User, passwordHash string) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	PasswordHash(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, id string) error
	ListPlayers(ctx context.Context) ([]models.Player, error)
	GetDetails(ctx context.Context, userID string) (*models.UserDetails, error)
	UpsertDetails(ctx context.Context, details models.UserDetails) error
}

// RatingRepository is the append-only rating ledger.
type RatingRepository interface {
	Append(ctx context.Context, userID string, rating int) error
	Current(ctx context.Context, userID string) (*models.RatingHistory, error)
	History(ctx context.Context, userID string) ([]models.RatingHistory, error)
	UsersWithoutRating(ctx context.Context) ([]string, error)
}

// InvitationRepository manages the invitation state machine. Accept is
// compound: the PENDING guard, the status flip and the game creation
// run in one transaction.
type InvitationRepository interface {
	Insert(ctx context.Context, inv models.GameInvitation) error
	Get(ctx context.Context, id string) (*models.GameInvitation, error)
	FindPending(ctx context.Context, senderID, receiverID string) (*models.GameInvitation, error)
	PendingForReceiver(ctx context.Context, receiverID string) ([]models.ReceivedInvitation, error)
	AcceptAndCreateGame(ctx context.Context, invitationID string, game models.Game) error
	Decline(ctx context.Context, invitationID string) error
}

// GameFinish describes the terminal transition applied together with a
// move append or a resignation: the result, the end timestamp, and the
// rating ledger rows derived from the outcome.
type GameFinish struct {
	Result  string
	EndedAt time.Time
	Ratings []models.RatingHistory
}

// GameRepository manages games, their moves and per-user visibility.
type GameRepository interface {
	Get(ctx context.Context, id string) (*models.Game, error)
	Detail(ctx context.Context, id string) (*models.GameDetail, error)
	OngoingForUser(ctx context.Context, userID string) (*models.GameDetail, error)
	// AppendMove inserts the move, and when finish is non-nil flips the
	// game to FINISHED and appends the rating rows in the same
	// transaction. Returns ErrMoveConflict when the move number is
	// already taken.
	AppendMove(ctx context.Context, move models.Move, finish *GameFinish) error
	// Finish flips ONGOING -> FINISHED and appends rating rows; it
	// reports false without error when the game was already finished.
	Finish(ctx context.Context, gameID string, finish GameFinish) (bool, error)
	Archive(ctx context.Context, userID, gameID string) error
	Summaries(ctx context.Context, userID string) ([]models.GameSummary, error)
}
