// Package engine wraps the chess rules library with the two operations
// the game lifecycle needs: replaying a stored notation history into a
// position, and validating/applying a candidate move against it.
package engine

import (
	"errors"
	"fmt"

	"github.com/corentings/chess/v2"
)

// ErrIllegalMove reports a candidate move rejected by the rules engine.
// The position is left untouched.
var ErrIllegalMove = errors.New("illegal move")

// ReplayError reports a stored notation that no longer applies to the
// position it was recorded against. It means the persisted history is
// corrupt; callers must treat it as unrecoverable, not retry.
type ReplayError struct {
	MoveNumber int
	Notation   string
	Err        error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("stored move %d (%s) does not replay: %v", e.MoveNumber, e.Notation, e.Err)
}

func (e *ReplayError) Unwrap() error {
	return e.Err
}

// Replay applies every stored SAN notation from the starting position
// and returns the resulting game. Pure over its input: replaying the
// same sequence twice yields identical positions.
func Replay(notations []string) (*chess.Game, error) {
	g := chess.NewGame()
	for i, san := range notations {
		if err := g.PushNotationMove(san, chess.AlgebraicNotation{}, nil); err != nil {
			return nil, &ReplayError{MoveNumber: i + 1, Notation: san, Err: err}
		}
	}
	return g, nil
}

// ReplayTo replays only the first k notations, for historical position
// lookups. k is clamped to the sequence length.
func ReplayTo(notations []string, k int) (*chess.Game, error) {
	if k > len(notations) {
		k = len(notations)
	}
	if k < 0 {
		k = 0
	}
	return Replay(notations[:k])
}

// MoveResult is the applied move: its canonical notation, the board
// encoding after it, and the outcome if it ended the game.
type MoveResult struct {
	SAN     string
	FEN     string
	Outcome chess.Outcome
}

// Apply validates from/to against the game's current position and
// applies it. Pawns reaching the last rank always promote to queen;
// promotion choice is not exposed to players. Returns ErrIllegalMove
// without touching the game when the move is rejected.
func Apply(g *chess.Game, from, to string) (MoveResult, error) {
	if !validSquare(from) || !validSquare(to) {
		return MoveResult{}, ErrIllegalMove
	}

	pos := g.Position()
	notation := chess.UCINotation{}

	mv, err := notation.Decode(pos, from+to)
	if err != nil {
		// Retry as a queen promotion; plain from/to does not decode
		// when the pawn reaches the last rank.
		mv, err = notation.Decode(pos, from+to+"q")
		if err != nil {
			return MoveResult{}, ErrIllegalMove
		}
	}

	if err := g.Move(mv, nil); err != nil {
		return MoveResult{}, ErrIllegalMove
	}

	return MoveResult{
		SAN:     chess.AlgebraicNotation{}.Encode(pos, mv),
		FEN:     g.FEN(),
		Outcome: g.Outcome(),
	}, nil
}

// SideToMove returns the color whose turn it is.
func SideToMove(g *chess.Game) chess.Color {
	return g.Position().Turn()
}

func validSquare(s string) bool {
	return len(s) == 2 && s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8'
}
