package models

import "time"

// RatingHistory is an append-only ledger entry. The current rating of a
// user is the most recent entry by CreatedAt; entries are never mutated
// or deleted.
type RatingHistory struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
