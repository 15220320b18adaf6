package models

import "time"

// Review is a rating and comment left by a user on a tour. A user may
// review a given tour at most once (unique constraint on tour_id, user_id).
type Review struct {
	ID        string
	TourID    string
	UserID    string
	Rating    int // 1..5
	Review    string
	CreatedAt time.Time

	// Populated on reads for display; not persisted on the review row.
	UserName  string
	UserPhoto string
}
