// This file defines the Rating model and repository. A user holds at most
// one rating per movie, enforced by a unique key on (movie_id, user_id).
package repository

import (
	"context"
	"database/sql"
)

// Rating represents one user's rating of one movie.
type Rating struct {
	ID      uint64 `json:"id"`
	Rate    int    `json:"rate"`
	MovieID uint64 `json:"movieId"`
	UserID  uint64 `json:"userId"`
}

// RatingRepo encapsulates all database queries related to ratings.
type RatingRepo struct {
	db *sql.DB
}

// NewRatingRepo constructs a RatingRepo with the provided DB handle.
func NewRatingRepo(db *sql.DB) *RatingRepo {
	return &RatingRepo{db: db}
}

// Upsert inserts the rating or overwrites the existing one for the same
// (movie, user) pair. The single INSERT ... ON DUPLICATE KEY UPDATE
// statement is atomic, so two concurrent submissions from the same user
// cannot produce two rows; the last write wins.
func (r *RatingRepo) Upsert(ctx context.Context, movieID, userID uint64, rate int) error {
	const q = `INSERT INTO ratings (movie_id, user_id, rate) VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE rate = VALUES(rate)`
	_, err := r.db.ExecContext(ctx, q, movieID, userID, rate)
	return err
}
