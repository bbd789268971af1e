package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/maelh/chessmates/internal/logger"
	"github.com/maelh/chessmates/internal/models"
	"github.com/maelh/chessmates/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Insert(ctx context.Context, user models.User, passwordHash string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("inserting user: email=%s", user.Email)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, name, email, image, password_hash, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, user.ID, user.Name, user.Email, user.Image, passwordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("user already exists: email=%s", user.Email)
			return repository.ErrDuplicate
		}
		log.Error("failed to insert user: %v", err)
		return err
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, email, image, created_at FROM users WHERE id = ?
`, id).Scan(&u.ID, &u.Name, &u.Email, &u.Image, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, email, image, created_at FROM users WHERE email = ?
`, email).Scan(&u.ID, &u.Name, &u.Email, &u.Image, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) PasswordHash(ctx context.Context, email string) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE email = ?`, email).Scan(&hash)
	return hash, err
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("deleting user: id=%s", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete user: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *userRepository) ListPlayers(ctx context.Context) ([]models.Player, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("listing players")

	query := sqlBuilder.Select(
		"u.id", "u.name", "u.email", "u.image",
		"d.username", "d.country", "d.flag", "d.bio",
		"r.rating",
	).
		From("users u").
		LeftJoin("user_details d ON d.user_id = u.id").
		LeftJoin(`rating_history r ON r.id = (
			SELECT id FROM rating_history
			WHERE user_id = u.id
			ORDER BY created_at DESC, id DESC LIMIT 1)`).
		OrderBy("r.rating DESC", "u.name ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list players: %v", err)
		return nil, err
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		var username, country, flag, bio sql.NullString
		var rating sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Image, &username, &country, &flag, &bio, &rating); err != nil {
			log.Error("failed to scan player row: %v", err)
			return nil, err
		}
		if username.Valid {
			p.Details = &models.UserDetails{
				UserID:   p.ID,
				Username: username.String,
				Country:  country.String,
				Flag:     flag.String,
				Bio:      bio.String,
			}
		}
		if rating.Valid {
			elo := int(rating.Int64)
			p.Elo = &elo
		}
		players = append(players, p)
	}
	log.Debug("found %d players", len(players))
	return players, rows.Err()
}

func (r *userRepository) GetDetails(ctx context.Context, userID string) (*models.UserDetails, error) {
	var d models.UserDetails
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, username, country, flag, bio FROM user_details WHERE user_id = ?
`, userID).Scan(&d.UserID, &d.Username, &d.Country, &d.Flag, &d.Bio)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *userRepository) UpsertDetails(ctx context.Context, details models.UserDetails) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("upserting details: user_id=%s, username=%s", details.UserID, details.Username)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_details (user_id, username, country, flag, bio)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    username = excluded.username,
    country = excluded.country,
    flag = excluded.flag,
    bio = excluded.bio
`, details.UserID, details.Username, details.Country, details.Flag, details.Bio)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("username taken: %s", details.Username)
			return repository.ErrDuplicate
		}
		log.Error("failed to upsert details: %v", err)
		return err
	}
	return nil
}
