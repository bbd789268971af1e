package engine_test

import (
	"testing"

	"github.com/corentings/chess/v2"
	"github.com/maelh/chessmates/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplay_EmptyHistory(t *testing.T) {
	g, err := engine.Replay(nil)
	require.NoError(t, err)
	assert.Equal(t, chess.White, engine.SideToMove(g))
}

func TestReplay_Deterministic(t *testing.T) {
	moves := []string{"e4", "e5", "Nf3", "Nc6", "Bb5"}

	g1, err := engine.Replay(moves)
	require.NoError(t, err)
	g2, err := engine.Replay(moves)
	require.NoError(t, err)

	assert.Equal(t, g1.FEN(), g2.FEN(), "replaying the same history must yield the same position")
}

func TestReplay_CorruptNotation(t *testing.T) {
	_, err := engine.Replay([]string{"e4", "e5", "Qxf7"})
	require.Error(t, err)

	var replayErr *engine.ReplayError
	require.ErrorAs(t, err, &replayErr)
	assert.Equal(t, 3, replayErr.MoveNumber)
	assert.Equal(t, "Qxf7", replayErr.Notation)
}

func TestReplayTo_ClampsOutOfRange(t *testing.T) {
	moves := []string{"e4", "e5"}

	g, err := engine.ReplayTo(moves, 10)
	require.NoError(t, err)
	full, err := engine.Replay(moves)
	require.NoError(t, err)
	assert.Equal(t, full.FEN(), g.FEN())

	g, err = engine.ReplayTo(moves, -1)
	require.NoError(t, err)
	assert.Equal(t, chess.White, engine.SideToMove(g))
}

func TestApply_LegalMove(t *testing.T) {
	g, err := engine.Replay(nil)
	require.NoError(t, err)

	res, err := engine.Apply(g, "e2", "e4")
	require.NoError(t, err)
	assert.Equal(t, "e4", res.SAN)
	assert.Equal(t, chess.NoOutcome, res.Outcome)
	assert.Equal(t, chess.Black, engine.SideToMove(g), "turn alternates after a move")
}

func TestApply_IllegalMove(t *testing.T) {
	g, err := engine.Replay(nil)
	require.NoError(t, err)
	before := g.FEN()

	_, err = engine.Apply(g, "e2", "e5")
	assert.ErrorIs(t, err, engine.ErrIllegalMove)
	assert.Equal(t, before, g.FEN(), "a rejected move leaves the position untouched")
}

func TestApply_WrongSidePiece(t *testing.T) {
	g, err := engine.Replay(nil)
	require.NoError(t, err)

	// Black pawn; it is white to move.
	_, err = engine.Apply(g, "e7", "e5")
	assert.ErrorIs(t, err, engine.ErrIllegalMove)
}

func TestApply_MalformedSquares(t *testing.T) {
	g, err := engine.Replay(nil)
	require.NoError(t, err)

	for _, sq := range [][2]string{{"e9", "e4"}, {"e2", "z4"}, {"", "e4"}, {"e2e4", "e5"}} {
		_, err := engine.Apply(g, sq[0], sq[1])
		assert.ErrorIs(t, err, engine.ErrIllegalMove, "%s-%s", sq[0], sq[1])
	}
}

func TestApply_FoolsMateEndsGame(t *testing.T) {
	g, err := engine.Replay([]string{"f3", "e5", "g4"})
	require.NoError(t, err)

	res, err := engine.Apply(g, "d8", "h4")
	require.NoError(t, err)
	assert.Equal(t, "Qh4#", res.SAN)
	assert.Equal(t, chess.BlackWon, res.Outcome)
}

func TestApply_AutoQueenPromotion(t *testing.T) {
	// White pawn one step from promotion, kings tucked away.
	fen := "8/1P5k/8/8/8/8/8/6K1 w - - 0 1"
	f, err := chess.FEN(fen)
	require.NoError(t, err)
	g := chess.NewGame(f)

	res, err := engine.Apply(g, "b7", "b8")
	require.NoError(t, err)
	assert.Equal(t, "b8=Q", res.SAN, "promotion defaults to a queen")
}
