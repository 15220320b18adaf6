package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nshrestha/trailbook/internal/database"
	"github.com/nshrestha/trailbook/internal/models"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{pool: db.Pool}
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	booking.ID = uuid.New().String()

	query := `
		INSERT INTO bookings (id, tour_id, user_id, price, paid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		booking.ID, booking.TourID, booking.UserID, booking.Price, booking.Paid,
	).Scan(&booking.CreatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return booking, nil
}

// ListByUser returns a user's bookings with tour name and slug joined in
// for the "my tours" page.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	query := `
		SELECT b.id, b.tour_id, b.user_id, b.price, b.paid, b.created_at, t.name, t.slug
		FROM bookings b
		JOIN tours t ON t.id = b.tour_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(
			&booking.ID, &booking.TourID, &booking.UserID, &booking.Price,
			&booking.Paid, &booking.CreatedAt, &booking.TourName, &booking.TourSlug,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return bookings, nil
}
