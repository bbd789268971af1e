package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/maelh/chessmates/internal/logger"
	"github.com/maelh/chessmates/internal/models"
	"github.com/maelh/chessmates/internal/repository"
)

type gameRepository struct {
	db *sql.DB
}

// NewGameRepository creates a new GameRepository implementation
func NewGameRepository(db *sql.DB) repository.GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) Get(ctx context.Context, id string) (*models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("getting game: id=%s", id)

	var g models.Game
	var endedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT id, player_white_id, player_black_id, status, result, started_at, ended_at
FROM games WHERE id = ?
`, id).Scan(&g.ID, &g.PlayerWhiteID, &g.PlayerBlackID, &g.Status, &g.Result, &g.StartedAt, &endedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("game not found: id=%s", id)
		} else {
			log.Error("failed to get game: %v", err)
		}
		return nil, err
	}
	if endedAt.Valid {
		g.EndedAt = &endedAt.Time
	}
	return &g, nil
}

func (r *gameRepository) Detail(ctx context.Context, id string) (*models.GameDetail, error) {
	game, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.detail(ctx, game)
}

func (r *gameRepository) OngoingForUser(ctx context.Context, userID string) (*models.GameDetail, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("getting ongoing game: user_id=%s", userID)

	var g models.Game
	var endedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT id, player_white_id, player_black_id, status, result, started_at, ended_at
FROM games
WHERE status = ? AND (player_white_id = ? OR player_black_id = ?)
ORDER BY started_at DESC
LIMIT 1
`, models.GameOngoing, userID, userID).
		Scan(&g.ID, &g.PlayerWhiteID, &g.PlayerBlackID, &g.Status, &g.Result, &g.StartedAt, &endedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get ongoing game: %v", err)
		return nil, err
	}
	if endedAt.Valid {
		g.EndedAt = &endedAt.Time
	}
	return r.detail(ctx, &g)
}

func (r *gameRepository) detail(ctx context.Context, game *models.Game) (*models.GameDetail, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")

	moves, err := r.moves(ctx, game.ID)
	if err != nil {
		log.Error("failed to load moves: %v", err)
		return nil, err
	}

	d := models.GameDetail{Game: *game, Moves: moves}
	for _, p := range []struct {
		id   string
		dest *models.User
	}{
		{game.PlayerWhiteID, &d.PlayerWhite},
		{game.PlayerBlackID, &d.PlayerBlack},
	} {
		err := r.db.QueryRowContext(ctx, `
SELECT id, name, email, image, created_at FROM users WHERE id = ?
`, p.id).Scan(&p.dest.ID, &p.dest.Name, &p.dest.Email, &p.dest.Image, &p.dest.CreatedAt)
		if err != nil {
			log.Error("failed to load player %s: %v", p.id, err)
			return nil, err
		}
	}
	return &d, nil
}

func (r *gameRepository) moves(ctx context.Context, gameID string) ([]models.Move, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, game_id, move_number, notation, fen, played_at
FROM moves WHERE game_id = ?
ORDER BY move_number ASC
`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var moves []models.Move
	for rows.Next() {
		var m models.Move
		if err := rows.Scan(&m.ID, &m.GameID, &m.MoveNumber, &m.Notation, &m.FEN, &m.PlayedAt); err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// AppendMove inserts the move with its precomputed number; the unique
// (game_id, move_number) index decides the loser of a concurrent
// append. When the move ended the game, the terminal transition and
// the rating ledger rows land in the same transaction.
func (r *gameRepository) AppendMove(ctx context.Context, move models.Move, finish *repository.GameFinish) error {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("appending move: game_id=%s, move_number=%d, notation=%s", move.GameID, move.MoveNumber, move.Notation)

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO moves (game_id, move_number, notation, fen, played_at)
VALUES (?, ?, ?, ?, ?)
`, move.GameID, move.MoveNumber, move.Notation, move.FEN, move.PlayedAt); err != nil {
			return err
		}
		if finish != nil {
			return finishInTx(ctx, tx, move.GameID, *finish)
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("move number %d already taken for game %s", move.MoveNumber, move.GameID)
			return repository.ErrMoveConflict
		}
		log.Error("failed to append move: %v", err)
		return err
	}
	return nil
}

func (r *gameRepository) Finish(ctx context.Context, gameID string, finish repository.GameFinish) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("finishing game: id=%s, result=%s", gameID, finish.Result)

	finished := false
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		err := finishInTx(ctx, tx, gameID, finish)
		if errors.Is(err, errAlreadyFinished) {
			log.Debug("game %s already finished, no-op", gameID)
			return nil
		}
		if err != nil {
			return err
		}
		finished = true
		return nil
	})
	return finished, err
}

var errAlreadyFinished = errors.New("game already finished")

// finishInTx flips ONGOING -> FINISHED and appends rating rows. The
// guard on status makes re-finishing affect zero rows, keeping the
// first result immutable.
func finishInTx(ctx context.Context, tx *sql.Tx, gameID string, finish repository.GameFinish) error {
	res, err := tx.ExecContext(ctx, `
UPDATE games SET status = ?, result = ?, ended_at = ?
WHERE id = ? AND status = ?
`, models.GameFinished, finish.Result, finish.EndedAt, gameID, models.GameOngoing)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return errAlreadyFinished
	}

	for _, h := range finish.Ratings {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO rating_history (user_id, rating, created_at) VALUES (?, ?, ?)
`, h.UserID, h.Rating, time.Now()); err != nil {
			return err
		}
	}
	return nil
}

func (r *gameRepository) Archive(ctx context.Context, userID, gameID string) error {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("archiving game: user_id=%s, game_id=%s", userID, gameID)

	res, err := r.db.ExecContext(ctx, `
UPDATE my_games SET archived = 1 WHERE user_id = ? AND game_id = ?
`, userID, gameID)
	if err != nil {
		log.Error("failed to archive game: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *gameRepository) Summaries(ctx context.Context, userID string) ([]models.GameSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("listing game summaries: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT g.id,
       COALESCE(m.fen, ?) AS fen,
       g.status, g.result, g.started_at,
       COALESCE(m.played_at, g.started_at) AS last_move_at,
       w.id, w.name, w.email, w.image, w.created_at,
       b.id, b.name, b.email, b.image, b.created_at
FROM my_games mg
JOIN games g ON g.id = mg.game_id
JOIN users w ON w.id = g.player_white_id
JOIN users b ON b.id = g.player_black_id
LEFT JOIN moves m ON m.game_id = g.id AND m.move_number = (
    SELECT MAX(move_number) FROM moves WHERE game_id = g.id)
WHERE mg.user_id = ? AND mg.archived = 0
ORDER BY last_move_at DESC
`, models.StartFEN, userID)
	if err != nil {
		log.Error("failed to list summaries: %v", err)
		return nil, err
	}
	defer rows.Close()

	var summaries []models.GameSummary
	for rows.Next() {
		var s models.GameSummary
		if err := rows.Scan(
			&s.GameID, &s.FEN, &s.Status, &s.Result, &s.StartedAt, &s.LastMoveAt,
			&s.PlayerWhite.ID, &s.PlayerWhite.Name, &s.PlayerWhite.Email, &s.PlayerWhite.Image, &s.PlayerWhite.CreatedAt,
			&s.PlayerBlack.ID, &s.PlayerBlack.Name, &s.PlayerBlack.Email, &s.PlayerBlack.Image, &s.PlayerBlack.CreatedAt,
		); err != nil {
			log.Error("failed to scan summary row: %v", err)
			return nil, err
		}
		summaries = append(summaries, s)
	}
	log.Debug("found %d summaries", len(summaries))
	return summaries, rows.Err()
}
