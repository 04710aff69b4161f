// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// RatingSubmittedEvent is published after a rating upsert succeeds. It
// contains enough information for downstream consumers to log, notify, or
// feed analytics without querying the primary database.
type RatingSubmittedEvent struct {
	MovieID     uint64    `json:"movie_id"`
	MovieTitle  string    `json:"movie_title"`
	UserID      uint64    `json:"user_id"`
	Rate        int       `json:"rate"`
	SubmittedAt time.Time `json:"submitted_at"`
}
