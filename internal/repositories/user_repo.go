package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nshrestha/trailbook/internal/database"
	"github.com/nshrestha/trailbook/internal/models"
)

// userColumns is the canonical select list for user rows.
const userColumns = `id, email, name, photo, role, password_hash,
	password_changed_at, password_reset_token, password_reset_expires_at,
	active, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	var role string
	var passwordChangedAt, resetExpiresAt *time.Time
	var resetToken *string

	err := scanner.Scan(
		&user.ID, &user.Email, &user.Name, &user.Photo, &role,
		&user.PasswordHash, &passwordChangedAt, &resetToken, &resetExpiresAt,
		&user.Active, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	user.Role = models.Role(role)
	user.PasswordChangedAt = passwordChangedAt
	user.PasswordResetToken = resetToken
	user.PasswordResetExpiresAt = resetExpiresAt

	return &user, nil
}

func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

// GetByID returns an active user by id. Soft-deleted users are treated as
// not found, matching the standing active filter on all normal lookups.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND active = TRUE`

	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND active = TRUE`

	return scanUserRow(r.pool.QueryRow(ctx, query, strings.ToLower(email)))
}

// GetByResetTokenHash returns the active user holding an unexpired reset
// token with the given hash. Expired or missing tokens are not found.
func (r *UserRepository) GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE password_reset_token = $1
		  AND password_reset_expires_at > now()
		  AND active = TRUE`

	return scanUserRow(r.pool.QueryRow(ctx, query, tokenHash))
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE active = TRUE ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserRows(rows)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()
	user.Email = strings.ToLower(user.Email)

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Active = true

	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Photo == "" {
		user.Photo = "default.jpg"
	}

	query := `
		INSERT INTO users (id, email, name, photo, role, password_hash, password_changed_at, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.Name, user.Photo, string(user.Role),
		user.PasswordHash, user.PasswordChangedAt, user.Active,
		user.CreatedAt, user.UpdatedAt,
	))
}

// Update writes profile fields only. Password and reset-token fields have
// dedicated methods so a profile save can never touch credential state.
func (r *UserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	query := `
		UPDATE users SET name = $1, email = $2, photo = $3, role = $4, updated_at = now()
		WHERE id = $5 AND active = TRUE
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.Name, strings.ToLower(user.Email), user.Photo, string(user.Role), id,
	))
}

// UpdatePassword stores a new password hash, stamps password_changed_at, and
// clears any outstanding reset token in the same statement.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	query := `
		UPDATE users
		SET password_hash = $1,
		    password_changed_at = $2,
		    password_reset_token = NULL,
		    password_reset_expires_at = NULL,
		    updated_at = now()
		WHERE id = $3 AND active = TRUE`

	result, err := r.pool.Exec(ctx, query, passwordHash, changedAt, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetResetToken persists a reset-token hash and expiry as a partial update,
// bypassing any password validation.
func (r *UserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET password_reset_token = $1, password_reset_expires_at = $2, updated_at = now()
		WHERE id = $3 AND active = TRUE`

	result, err := r.pool.Exec(ctx, query, tokenHash, expiresAt, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ClearResetToken removes any stored reset token. Used both after a
// successful reset and as the rollback when token delivery fails.
func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET password_reset_token = NULL, password_reset_expires_at = NULL, updated_at = now()
		WHERE id = $1`

	_, err := r.pool.Exec(ctx, query, id)
	return database.MapPostgresError(err)
}

// Deactivate soft-deletes a user. The row stays, but the standing active
// filter excludes it from every normal query.
func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE users SET active = FALSE, updated_at = now() WHERE id = $1 AND active = TRUE`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CleanupExpiredResetTokens clears reset-token fields that have passed their
// expiry. Run periodically from the background cleanup manager.
func (r *UserRepository) CleanupExpiredResetTokens(ctx context.Context) (int64, error) {
	query := `
		UPDATE users
		SET password_reset_token = NULL, password_reset_expires_at = NULL
		WHERE password_reset_expires_at IS NOT NULL AND password_reset_expires_at <= now()`

	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}
