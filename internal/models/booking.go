package models

import "time"

// Booking records a purchased tour seat. Checkout-session creation against
// the payment gateway happens in an external collaborator; the booking row
// is written once the session completes.
type Booking struct {
	ID        string
	TourID    string
	UserID    string
	Price     float64
	Paid      bool
	CreatedAt time.Time

	// Populated on reads for display.
	TourName string
	TourSlug string
}
