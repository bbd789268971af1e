package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

// insertUser seeds a user row directly; repository behaviour under test
// should not depend on UserRepository.Insert.
func insertUser(t *testing.T, db *sql.DB, id, name, email string) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)`,
		id, name, email, "x")
	require.NoError(t, err)
}

// insertGame seeds an ongoing game with both players' my_games rows.
func insertGame(t *testing.T, db *sql.DB, id, whiteID, blackID string) {
	t.Helper()
	ctx := context.Background()
	_, err := db.ExecContext(ctx,
		`INSERT INTO games (id, player_white_id, player_black_id) VALUES (?, ?, ?)`,
		id, whiteID, blackID)
	require.NoError(t, err)
	for _, userID := range []string{whiteID, blackID} {
		_, err = db.ExecContext(ctx,
			`INSERT INTO my_games (user_id, game_id) VALUES (?, ?)`, userID, id)
		require.NoError(t, err)
	}
}
