package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/corentings/chess/v2"
	"github.com/maelh/chessmates/internal/engine"
	"github.com/maelh/chessmates/internal/errors"
	"github.com/maelh/chessmates/internal/logger"
	"github.com/maelh/chessmates/internal/models"
	"github.com/maelh/chessmates/internal/rating"
	"github.com/maelh/chessmates/internal/repository"
)

// GameService handles game reads, move play and archival
type GameService interface {
	Ongoing(ctx context.Context, userID string) (*models.GameDetail, error)
	Get(ctx context.Context, gameID string) (*models.GameDetail, error)
	PlayMove(ctx context.Context, userID, gameID, from, to string, seenMoves int) (*models.Move, *models.Game, error)
	Resign(ctx context.Context, userID, gameID string) (*models.Game, error)
	Archive(ctx context.Context, userID, gameID string) error
	Summaries(ctx context.Context, userID string) ([]models.GameSummary, error)
}

type gameService struct {
	gameRepo      repository.GameRepository
	ratingRepo    repository.RatingRepository
	kFactor       int
	initialRating int
}

// NewGameService creates a new GameService
func NewGameService(gameRepo repository.GameRepository, ratingRepo repository.RatingRepository, kFactor, initialRating int) GameService {
	return &gameService{
		gameRepo:      gameRepo,
		ratingRepo:    ratingRepo,
		kFactor:       kFactor,
		initialRating: initialRating,
	}
}

func (s *gameService) Ongoing(ctx context.Context, userID string) (*models.GameDetail, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting ongoing game: user_id=%s", userID)

	detail, err := s.gameRepo.OngoingForUser(ctx, userID)
	if err != nil {
		log.Error("failed to get ongoing game: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return detail, nil
}

func (s *gameService) Get(ctx context.Context, gameID string) (*models.GameDetail, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting game: id=%s", gameID)

	detail, err := s.gameRepo.Detail(ctx, gameID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("game", gameID)
		}
		log.Error("failed to get game: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return detail, nil
}

// PlayMove reconstructs the position from the stored history, checks
// the acting user may move, applies the move and persists it. seenMoves
// is the number of moves the client acted on; a mismatch means the
// board is stale and the append is rejected before touching the rules
// engine. If the move ends the game, the terminal transition and both
// players' rating updates are persisted atomically with it.
func (s *gameService) PlayMove(ctx context.Context, userID, gameID, from, to string, seenMoves int) (*models.Move, *models.Game, error) {
	log := logger.FromContext(ctx)
	log.Debug("play move: game=%s, user=%s, %s-%s", gameID, userID, from, to)

	detail, err := s.Get(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	if detail.Status != models.GameOngoing {
		return nil, nil, errors.NewValidationError("game", "already finished")
	}
	playerColor, ok := colorOf(&detail.Game, userID)
	if !ok {
		return nil, nil, errors.NewForbiddenError("not a participant of this game")
	}
	if seenMoves != len(detail.Moves) {
		return nil, nil, errors.NewConflictError("board out of date, refresh and retry")
	}

	notations := make([]string, len(detail.Moves))
	for i, m := range detail.Moves {
		notations[i] = m.Notation
	}
	g, err := engine.Replay(notations)
	if err != nil {
		// Stored history no longer replays: corrupt data, refuse to guess.
		log.Error("integrity failure replaying game %s: %v", gameID, err)
		return nil, nil, errors.NewIntegrityError("game history is corrupt", err)
	}

	if engine.SideToMove(g) != playerColor {
		return nil, nil, errors.NewForbiddenError("not your turn")
	}

	res, err := engine.Apply(g, from, to)
	if err != nil {
		if stderrors.Is(err, engine.ErrIllegalMove) {
			return nil, nil, errors.NewValidationError("move", "illegal move")
		}
		log.Error("failed to apply move: %v", err)
		return nil, nil, errors.NewInternalError(err)
	}

	move := models.Move{
		GameID:     gameID,
		MoveNumber: len(detail.Moves) + 1,
		Notation:   res.SAN,
		FEN:        res.FEN,
		PlayedAt:   time.Now(),
	}

	var finish *repository.GameFinish
	if result := resultFromOutcome(res.Outcome); result != "" {
		f, err := s.finishFor(ctx, &detail.Game, result)
		if err != nil {
			return nil, nil, err
		}
		finish = &f
	}

	if err := s.gameRepo.AppendMove(ctx, move, finish); err != nil {
		if stderrors.Is(err, repository.ErrMoveConflict) {
			return nil, nil, errors.NewConflictError("board out of date, refresh and retry")
		}
		log.Error("failed to persist move: %v", err)
		return nil, nil, errors.NewInternalError(err)
	}

	game := detail.Game
	if finish != nil {
		game.Status = models.GameFinished
		game.Result = finish.Result
		game.EndedAt = &finish.EndedAt
		log.Info("game finished: id=%s, result=%s", gameID, finish.Result)
	}
	log.Info("move played: game=%s, number=%d, san=%s", gameID, move.MoveNumber, move.Notation)
	return &move, &game, nil
}

// Resign finishes an ongoing game with the opponent as winner. Already
// finished games are left untouched.
func (s *gameService) Resign(ctx context.Context, userID, gameID string) (*models.Game, error) {
	log := logger.FromContext(ctx)
	log.Debug("resign: game=%s, user=%s", gameID, userID)

	game, err := s.gameRepo.Get(ctx, gameID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("game", gameID)
		}
		log.Error("failed to get game: %v", err)
		return nil, errors.NewInternalError(err)
	}

	playerColor, ok := colorOf(game, userID)
	if !ok {
		return nil, errors.NewForbiddenError("not a participant of this game")
	}

	if game.Status != models.GameOngoing {
		// Idempotent: the first terminal result stands.
		log.Debug("game %s already finished", gameID)
		return game, nil
	}

	result := models.ResultWhiteWin
	if playerColor == chess.White {
		result = models.ResultBlackWin
	}

	finish, err := s.finishFor(ctx, game, result)
	if err != nil {
		return nil, err
	}

	finished, err := s.gameRepo.Finish(ctx, gameID, finish)
	if err != nil {
		log.Error("failed to finish game: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if !finished {
		// A concurrent finish got there first; its result stands.
		log.Debug("game %s already finished", gameID)
		return game, nil
	}

	game.Status = models.GameFinished
	game.Result = result
	game.EndedAt = &finish.EndedAt
	log.Info("game resigned: id=%s, result=%s", gameID, result)
	return game, nil
}

func (s *gameService) Archive(ctx context.Context, userID, gameID string) error {
	log := logger.FromContext(ctx)
	log.Debug("archive: game=%s, user=%s", gameID, userID)

	if err := s.gameRepo.Archive(ctx, userID, gameID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("game", gameID)
		}
		log.Error("failed to archive game: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *gameService) Summaries(ctx context.Context, userID string) ([]models.GameSummary, error) {
	summaries, err := s.gameRepo.Summaries(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list summaries: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return summaries, nil
}

// finishFor builds the terminal transition: result, timestamp and the
// rating ledger rows for both players.
func (s *gameService) finishFor(ctx context.Context, game *models.Game, result string) (repository.GameFinish, error) {
	log := logger.FromContext(ctx)

	white, err := s.currentRating(ctx, game.PlayerWhiteID)
	if err != nil {
		return repository.GameFinish{}, err
	}
	black, err := s.currentRating(ctx, game.PlayerBlackID)
	if err != nil {
		return repository.GameFinish{}, err
	}

	whiteOutcome := rating.Draw
	switch result {
	case models.ResultWhiteWin:
		whiteOutcome = rating.Win
	case models.ResultBlackWin:
		whiteOutcome = rating.Loss
	}

	newWhite, err := rating.Update(white, black, whiteOutcome, s.kFactor)
	if err != nil {
		return repository.GameFinish{}, errors.NewInternalError(err)
	}
	newBlack, err := rating.Update(black, white, 1-whiteOutcome, s.kFactor)
	if err != nil {
		return repository.GameFinish{}, errors.NewInternalError(err)
	}

	log.Debug("rating update: white %d -> %d, black %d -> %d", white, newWhite, black, newBlack)
	return repository.GameFinish{
		Result:  result,
		EndedAt: time.Now(),
		Ratings: []models.RatingHistory{
			{UserID: game.PlayerWhiteID, Rating: newWhite},
			{UserID: game.PlayerBlackID, Rating: newBlack},
		},
	}, nil
}

func (s *gameService) currentRating(ctx context.Context, userID string) (int, error) {
	current, err := s.ratingRepo.Current(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load rating for %s: %v", userID, err)
		return 0, errors.NewInternalError(err)
	}
	if current == nil {
		return s.initialRating, nil
	}
	return current.Rating, nil
}

func colorOf(game *models.Game, userID string) (chess.Color, bool) {
	switch userID {
	case game.PlayerWhiteID:
		return chess.White, true
	case game.PlayerBlackID:
		return chess.Black, true
	default:
		return chess.NoColor, false
	}
}

func resultFromOutcome(outcome chess.Outcome) string {
	switch outcome {
	case chess.WhiteWon:
		return models.ResultWhiteWin
	case chess.BlackWon:
		return models.ResultBlackWin
	case chess.Draw:
		return models.ResultDraw
	default:
		return ""
	}
}
