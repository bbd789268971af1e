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

type ratingRepository struct {
	db *sql.DB
}

// NewRatingRepository creates a new RatingRepository implementation
func NewRatingRepository(db *sql.DB) repository.RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Append(ctx context.Context, userID string, rating int) error {
	log := logger.FromContext(ctx).WithPrefix("rating_repo")
	log.Debug("appending rating: user_id=%s, rating=%d", userID, rating)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO rating_history (user_id, rating, created_at) VALUES (?, ?, ?)
`, userID, rating, time.Now())
	if err != nil {
		log.Error("failed to append rating: %v", err)
	}
	return err
}

func (r *ratingRepository) Current(ctx context.Context, userID string) (*models.RatingHistory, error) {
	var h models.RatingHistory
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, rating, created_at FROM rating_history
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
LIMIT 1
`, userID).Scan(&h.ID, &h.UserID, &h.Rating, &h.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *ratingRepository) History(ctx context.Context, userID string) ([]models.RatingHistory, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, rating, created_at FROM rating_history
WHERE user_id = ?
ORDER BY created_at ASC, id ASC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []models.RatingHistory
	for rows.Next() {
		var h models.RatingHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.Rating, &h.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (r *ratingRepository) UsersWithoutRating(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT u.id FROM users u
WHERE NOT EXISTS (SELECT 1 FROM rating_history r WHERE r.user_id = u.id)
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
