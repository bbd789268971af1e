package models

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserDetails is the optional public profile attached to a User.
type UserDetails struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Country  string `json:"country,omitempty"`
	Flag     string `json:"flag,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// Player is a directory entry: a user with their public details and
// current rating (latest ledger entry), if any.
type Player struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Email   string       `json:"email"`
	Image   string       `json:"image,omitempty"`
	Elo     *int         `json:"elo"`
	Details *UserDetails `json:"user_details"`
}
