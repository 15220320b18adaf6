package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nshrestha/trailbook/internal/database"
	"github.com/nshrestha/trailbook/internal/models"
)

const tourColumns = `id, name, slug, duration_days, max_group_size, difficulty,
	price, summary, description, image_cover, ratings_average, ratings_quantity, created_at`

// TourListOptions controls filtering, sorting, and pagination of the tour
// catalog. Sort keys are whitelisted; anything else falls back to created_at.
type TourListOptions struct {
	Difficulty string
	MaxPrice   float64
	SortBy     string // "price", "-price", "ratings_average", "-ratings_average", "name"
	Limit      int
	Offset     int
}

var tourSortColumns = map[string]string{
	"price":           "price",
	"ratings_average": "ratings_average",
	"name":            "name",
	"created_at":      "created_at",
}

type TourRepository struct {
	pool *pgxpool.Pool
}

func NewTourRepository(db *database.DB) *TourRepository {
	return &TourRepository{pool: db.Pool}
}

func scanTourRow(scanner rowScanner) (*models.Tour, error) {
	var tour models.Tour
	var difficulty string

	err := scanner.Scan(
		&tour.ID, &tour.Name, &tour.Slug, &tour.DurationDays, &tour.MaxGroupSize,
		&difficulty, &tour.Price, &tour.Summary, &tour.Description,
		&tour.ImageCover, &tour.RatingsAverage, &tour.RatingsQuantity, &tour.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	tour.Difficulty = models.Difficulty(difficulty)
	return &tour, nil
}

func scanTourRows(rows pgx.Rows) ([]*models.Tour, error) {
	defer rows.Close()

	tours := make([]*models.Tour, 0)
	for rows.Next() {
		tour, err := scanTourRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tour: %w", err)
		}
		tours = append(tours, tour)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tours, nil
}

func (r *TourRepository) List(ctx context.Context, opts TourListOptions) ([]*models.Tour, error) {
	var conditions []string
	var args []interface{}

	if opts.Difficulty != "" {
		args = append(args, opts.Difficulty)
		conditions = append(conditions, fmt.Sprintf("difficulty = $%d", len(args)))
	}
	if opts.MaxPrice > 0 {
		args = append(args, opts.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("price <= $%d", len(args)))
	}

	query := `SELECT ` + tourColumns + ` FROM tours`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortKey := strings.TrimPrefix(opts.SortBy, "-")
	column, ok := tourSortColumns[sortKey]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if strings.HasPrefix(opts.SortBy, "-") || column == "created_at" {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", column, direction)

	limit := opts.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tours: %w", err)
	}

	return scanTourRows(rows)
}

func (r *TourRepository) GetByID(ctx context.Context, id string) (*models.Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE id = $1`

	return scanTourRow(r.pool.QueryRow(ctx, query, id))
}

func (r *TourRepository) GetBySlug(ctx context.Context, slug string) (*models.Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE slug = $1`

	return scanTourRow(r.pool.QueryRow(ctx, query, slug))
}

func (r *TourRepository) Create(ctx context.Context, tour *models.Tour) (*models.Tour, error) {
	tour.ID = uuid.New().String()

	query := `
		INSERT INTO tours (id, name, slug, duration_days, max_group_size, difficulty, price, summary, description, image_cover)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + tourColumns

	return scanTourRow(r.pool.QueryRow(ctx, query,
		tour.ID, tour.Name, tour.Slug, tour.DurationDays, tour.MaxGroupSize,
		string(tour.Difficulty), tour.Price, tour.Summary, tour.Description, tour.ImageCover,
	))
}

func (r *TourRepository) Update(ctx context.Context, id string, tour *models.Tour) (*models.Tour, error) {
	query := `
		UPDATE tours
		SET name = $1, slug = $2, duration_days = $3, max_group_size = $4,
		    difficulty = $5, price = $6, summary = $7, description = $8, image_cover = $9
		WHERE id = $10
		RETURNING ` + tourColumns

	return scanTourRow(r.pool.QueryRow(ctx, query,
		tour.Name, tour.Slug, tour.DurationDays, tour.MaxGroupSize,
		string(tour.Difficulty), tour.Price, tour.Summary, tour.Description, tour.ImageCover, id,
	))
}

func (r *TourRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM tours WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// RecalculateRatings refreshes the denormalized rating stats from the
// reviews table. Called after every review write.
func (r *TourRepository) RecalculateRatings(ctx context.Context, tourID string) error {
	query := `
		UPDATE tours SET
			ratings_quantity = sub.cnt,
			ratings_average = sub.avg
		FROM (
			SELECT COUNT(*) AS cnt, COALESCE(ROUND(AVG(rating)::numeric, 2), 4.5) AS avg
			FROM reviews WHERE tour_id = $1
		) AS sub
		WHERE tours.id = $1`

	_, err := r.pool.Exec(ctx, query, tourID)
	return database.MapPostgresError(err)
}
