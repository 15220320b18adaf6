package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nshrestha/trailbook/internal/database"
	"github.com/nshrestha/trailbook/internal/models"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(db *database.DB) *ReviewRepository {
	return &ReviewRepository{pool: db.Pool}
}

func scanReviewRow(scanner rowScanner) (*models.Review, error) {
	var review models.Review

	err := scanner.Scan(
		&review.ID, &review.TourID, &review.UserID, &review.Rating,
		&review.Review, &review.CreatedAt, &review.UserName, &review.UserPhoto,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &review, nil
}

func scanReviewRows(rows pgx.Rows) ([]*models.Review, error) {
	defer rows.Close()

	reviews := make([]*models.Review, 0)
	for rows.Next() {
		review, err := scanReviewRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return reviews, nil
}

// reviewSelect joins the author for display. Soft-deleted authors still show
// on their reviews; the active filter applies to identity lookups only.
const reviewSelect = `
	SELECT r.id, r.tour_id, r.user_id, r.rating, r.review, r.created_at, u.name, u.photo
	FROM reviews r
	JOIN users u ON u.id = r.user_id`

func (r *ReviewRepository) ListByTour(ctx context.Context, tourID string) ([]*models.Review, error) {
	query := reviewSelect + ` WHERE r.tour_id = $1 ORDER BY r.created_at DESC`

	rows, err := r.pool.Query(ctx, query, tourID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}

	return scanReviewRows(rows)
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	query := reviewSelect + ` WHERE r.id = $1`

	return scanReviewRow(r.pool.QueryRow(ctx, query, id))
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	review.ID = uuid.New().String()

	query := `
		INSERT INTO reviews (id, tour_id, user_id, rating, review)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		review.ID, review.TourID, review.UserID, review.Rating, review.Review,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return r.GetByID(ctx, review.ID)
}

func (r *ReviewRepository) Update(ctx context.Context, id string, rating int, text string) (*models.Review, error) {
	query := `UPDATE reviews SET rating = $1, review = $2 WHERE id = $3`

	result, err := r.pool.Exec(ctx, query, rating, text, id)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return nil, models.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
