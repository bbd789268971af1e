package services_test

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/maelh/chessmates/internal/errors"
	"github.com/maelh/chessmates/internal/models"
	"github.com/maelh/chessmates/internal/repository"
	"github.com/maelh/chessmates/internal/services"
	"github.com/maelh/chessmates/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newGameService(t *testing.T) (services.GameService, *mocks.MockGameRepository, *mocks.MockRatingRepository) {
	t.Helper()
	gameRepo := new(mocks.MockGameRepository)
	ratingRepo := new(mocks.MockRatingRepository)
	return services.NewGameService(gameRepo, ratingRepo, 32, 1000), gameRepo, ratingRepo
}

func ongoingDetail(moves ...models.Move) *models.GameDetail {
	return &models.GameDetail{
		Game: models.Game{
			ID:            "g1",
			PlayerWhiteID: "white",
			PlayerBlackID: "black",
			Status:        models.GameOngoing,
			Result:        models.ResultUndecided,
			StartedAt:     time.Now(),
		},
		Moves:       moves,
		PlayerWhite: models.User{ID: "white", Name: "Alice"},
		PlayerBlack: models.User{ID: "black", Name: "Bob"},
	}
}

func moveRow(number int, notation string) models.Move {
	return models.Move{GameID: "g1", MoveNumber: number, Notation: notation, PlayedAt: time.Now()}
}

func TestPlayMove_FirstMove(t *testing.T) {
	svc, gameRepo, _ := newGameService(t)
	ctx := context.Background()

	gameRepo.On("Detail", ctx, "g1").Return(ongoingDetail(), nil)
	gameRepo.On("AppendMove", ctx, mock.MatchedBy(func(m models.Move) bool {
		return m.GameID == "g1" && m.MoveNumber == 1 && m.Notation == "e4" && m.FEN != ""
	}), (*repository.GameFinish)(nil)).Return(nil)

	move, game, err := svc.PlayMove(ctx, "white", "g1", "e2", "e4", 0)
	require.NoError(t, err)
	assert.Equal(t, "e4", move.Notation)
	assert.Equal(t, models.GameOngoing, game.Status, "a non-terminal move leaves the game ongoing")

	gameRepo.AssertExpectations(t)
}

func TestPlayMove_NotParticipant(t *testing.T) {
	svc, gameRepo, _ := newGameService(t)
	ctx := context.Background()

	gameRepo.On("Detail", ctx, "g1").Return(ongoingDetail(), nil)

	_, _, err := svc.PlayMove(ctx, "stranger", "g1", "e2", "e4", 0)
	requireAppCode(t, err, apperrors.ErrCodeForbidden)
}

func TestPlayMove_FinishedGame(t *testing.T) {
	svc, gameRepo, _ := newGameService(t)
	ctx := context.Background()

	detail := ongoingDetail()
	detail.Status = models.GameFinished
	detail.Result = models.ResultDraw
	gameRepo.On("Detail", ctx, "g1").Return(detail, nil)

	_, _, err := svc.PlayMove(ctx, "white", "g1", "e2", "e4", 0)
	requireAppCode(t, err, apperrors.ErrCodeValidation)
}

func TestPlayMove_StaleBoard(t *testing.T) {
	svc, gameRepo, _ := newGameService(t)
	ctx := context.Background()

	gameRepo.On("Detail", ctx, "g1").Return(ongoingDetail(moveRow(1, "e4")), nil)

	// Client acted on an empty board but a move already landed.
	_, _, err := svc.PlayMove(ctx, "black", "g1", "e7", "e5", 0)
	requireAppCode(t, err, apperrors.ErrCodeConflict)

	gameRepo.AssertNotCalled(t, "AppendMove", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlayMove_NotYourTurn(t *testing.T) {
	svc, gameRepo, _ := newGameService(t)
	ctx := context.Background()

	gameRepo.On("Detail", ctx, "g1").Return(ongoingDetail(), nil)

	_, _, err := svc.PlayMove(ctx, "black", "g1", "e7", "e5", 0)
	requireAppCode(t, err, apperrors.ErrCodeForbidden)
}

func TestPlayMove_IllegalMove(t *testing.T) {
	svc, gameRepo, _ := newGameService(t)
	ctx := context.Background()

	gameRepo.On("Detail", ctx, "g1").Return(ongoingDetail(), nil)

	_, _, err := svc.PlayMove(ctx, "white", "g1", "e2", "e5", 0)
	requireAppCode(t, err, apperrors.ErrCodeValidation)
}

func TestPlayMove_CorruptHistory(t *testing.T) {
	svc, gameRepo, _ := newGameService(t)
	ctx := context.Background()

	gameRepo.On("Detail", ctx, "g1").Return(ongoingDetail(moveRow(1, "not-a-move")), nil)

	_, _, err := svc.PlayMove(ctx, "black", "g1", "e7", "e5", 1)
	requireAppCode(t, err, apperrors.ErrCodeIntegrity)
}

func TestPlayMove_AppendConflict(t *testing.T) {
	svc, gameRepo, _ := newGameService(t)
	ctx := context.Background()

	gameRepo.On("Detail", ctx, "g1").Return(ongoingDetail(), nil)
	gameRepo.On("AppendMove", ctx, mock.Anything, (*repository.GameFinish)(nil)).Return(repository.ErrMoveConflict)

	_, _, err := svc.PlayMove(ctx, "white", "g1", "e2", "e4", 0)
	requireAppCode(t, err, apperrors.ErrCodeConflict)
}

func TestPlayMove_CheckmateFinishesAndRates(t *testing.T) {
	svc, gameRepo, ratingRepo := newGameService(t)
	ctx := context.Background()

	detail := ongoingDetail(moveRow(1, "f3"), moveRow(2, "e5"), moveRow(3, "g4"))
	gameRepo.On("Detail", ctx, "g1").Return(detail, nil)
	ratingRepo.On("Current", ctx, "white").Return(&models.RatingHistory{UserID: "white", Rating: 1200}, nil)
	ratingRepo.On("Current", ctx, "black").Return(&models.RatingHistory{UserID: "black", Rating: 1200}, nil)

	gameRepo.On("AppendMove", ctx, mock.MatchedBy(func(m models.Move) bool {
		return m.MoveNumber == 4 && m.Notation == "Qh4#"
	}), mock.MatchedBy(func(f *repository.GameFinish) bool {
		if f == nil || f.Result != models.ResultBlackWin || len(f.Ratings) != 2 {
			return false
		}
		return f.Ratings[0].Rating == 1184 && f.Ratings[1].Rating == 1216
	})).Return(nil)

	_, game, err := svc.PlayMove(ctx, "black", "g1", "d8", "h4", 3)
	require.NoError(t, err)
	assert.Equal(t, models.GameFinished, game.Status)
	assert.Equal(t, models.ResultBlackWin, game.Result)
	require.NotNil(t, game.EndedAt)

	gameRepo.AssertExpectations(t)
}

func TestPlayMove_UnratedPlayersUseInitialRating(t *testing.T) {
	svc, gameRepo, ratingRepo := newGameService(t)
	ctx := context.Background()

	detail := ongoingDetail(moveRow(1, "f3"), moveRow(2, "e5"), moveRow(3, "g4"))
	gameRepo.On("Detail", ctx, "g1").Return(detail, nil)
	ratingRepo.On("Current", ctx, "white").Return(nil, nil)
	ratingRepo.On("Current", ctx, "black").Return(nil, nil)

	gameRepo.On("AppendMove", ctx, mock.Anything, mock.MatchedBy(func(f *repository.GameFinish) bool {
		return f != nil && f.Ratings[0].Rating == 984 && f.Ratings[1].Rating == 1016
	})).Return(nil)

	_, _, err := svc.PlayMove(ctx, "black", "g1", "d8", "h4", 3)
	require.NoError(t, err)
	gameRepo.AssertExpectations(t)
}

func TestResign(t *testing.T) {
	svc, gameRepo, ratingRepo := newGameService(t)
	ctx := context.Background()

	game := &models.Game{ID: "g1", PlayerWhiteID: "white", PlayerBlackID: "black", Status: models.GameOngoing, Result: models.ResultUndecided}
	gameRepo.On("Get", ctx, "g1").Return(game, nil)
	ratingRepo.On("Current", ctx, "white").Return(nil, nil)
	ratingRepo.On("Current", ctx, "black").Return(nil, nil)
	gameRepo.On("Finish", ctx, "g1", mock.MatchedBy(func(f repository.GameFinish) bool {
		return f.Result == models.ResultBlackWin
	})).Return(true, nil)

	got, err := svc.Resign(ctx, "white", "g1")
	require.NoError(t, err)
	assert.Equal(t, models.GameFinished, got.Status)
	assert.Equal(t, models.ResultBlackWin, got.Result, "resigning hands the win to the opponent")
}

func TestResign_AlreadyFinished(t *testing.T) {
	svc, gameRepo, ratingRepo := newGameService(t)
	ctx := context.Background()

	game := &models.Game{ID: "g1", PlayerWhiteID: "white", PlayerBlackID: "black", Status: models.GameFinished, Result: models.ResultWhiteWin}
	gameRepo.On("Get", ctx, "g1").Return(game, nil)

	got, err := svc.Resign(ctx, "black", "g1")
	require.NoError(t, err, "resigning a finished game is a no-op")
	assert.Equal(t, models.ResultWhiteWin, got.Result, "the recorded result stands")

	// No rating reads or write attempts for a game that is already over.
	ratingRepo.AssertNotCalled(t, "Current", mock.Anything, mock.Anything)
	gameRepo.AssertNotCalled(t, "Finish", mock.Anything, mock.Anything, mock.Anything)
}

func TestResign_LostFinishRace(t *testing.T) {
	svc, gameRepo, ratingRepo := newGameService(t)
	ctx := context.Background()

	// Ongoing at read time, finished by a concurrent request before the
	// conditional flip runs.
	game := &models.Game{ID: "g1", PlayerWhiteID: "white", PlayerBlackID: "black", Status: models.GameOngoing, Result: models.ResultUndecided}
	gameRepo.On("Get", ctx, "g1").Return(game, nil)
	ratingRepo.On("Current", ctx, "white").Return(nil, nil)
	ratingRepo.On("Current", ctx, "black").Return(nil, nil)
	gameRepo.On("Finish", ctx, "g1", mock.Anything).Return(false, nil)

	got, err := svc.Resign(ctx, "black", "g1")
	require.NoError(t, err)
	assert.Equal(t, models.GameOngoing, got.Status, "the loaded snapshot is returned unchanged")
}

func TestResign_NotParticipant(t *testing.T) {
	svc, gameRepo, _ := newGameService(t)
	ctx := context.Background()

	game := &models.Game{ID: "g1", PlayerWhiteID: "white", PlayerBlackID: "black", Status: models.GameOngoing}
	gameRepo.On("Get", ctx, "g1").Return(game, nil)

	_, err := svc.Resign(ctx, "stranger", "g1")
	requireAppCode(t, err, apperrors.ErrCodeForbidden)
}
