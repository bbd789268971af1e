package models

import "time"

// Game status values.
const (
	GameOngoing  = "ONGOING"
	GameFinished = "FINISHED"
)

// Game result values. Result stays UNDECIDED exactly as long as the
// game is ONGOING.
const (
	ResultUndecided = "UNDECIDED"
	ResultWhiteWin  = "WHITE_WIN"
	ResultBlackWin  = "BLACK_WIN"
	ResultDraw      = "DRAW"
)

type Game struct {
	ID            string     `json:"id"`
	PlayerWhiteID string     `json:"player_white_id"`
	PlayerBlackID string     `json:"player_black_id"`
	Status        string     `json:"status"`
	Result        string     `json:"result"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
}

// Move is one ply of a game. MoveNumber is 1-based and gapless; FEN is
// the position after the move, cached so reads never replay history.
type Move struct {
	ID         int64     `json:"id"`
	GameID     string    `json:"game_id"`
	MoveNumber int       `json:"move_number"`
	Notation   string    `json:"notation"`
	FEN        string    `json:"fen"`
	PlayedAt   time.Time `json:"played_at"`
}

// MyGame is the per-participant visibility record for a shared game.
type MyGame struct {
	UserID   string `json:"user_id"`
	GameID   string `json:"game_id"`
	Archived bool   `json:"archived"`
}

// GameDetail is a game with its move history and both players' identity.
type GameDetail struct {
	Game
	Moves       []Move `json:"moves"`
	PlayerWhite User   `json:"player_white"`
	PlayerBlack User   `json:"player_black"`
}

// GameSummary is the denormalized card shown on a player's games list.
type GameSummary struct {
	GameID      string    `json:"game_id"`
	FEN         string    `json:"fen"`
	Status      string    `json:"status"`
	Result      string    `json:"result"`
	StartedAt   time.Time `json:"started_at"`
	LastMoveAt  time.Time `json:"last_move_at"`
	PlayerWhite User      `json:"player_white"`
	PlayerBlack User      `json:"player_black"`
}

// StartFEN is the board encoding of the initial chess position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
