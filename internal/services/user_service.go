package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nshrestha/trailbook/internal/models"
)

// UserProfileRepository is the store surface for profile management.
type UserProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
	Deactivate(ctx context.Context, id string) error
}

// UserService handles profile reads and updates. Password changes go
// through the AuthService only.
type UserService struct {
	repo   UserProfileRepository
	logger *slog.Logger
}

func NewUserService(repo UserProfileRepository, logger *slog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// UpdateMe updates the caller's own name, email, and photo. Empty fields
// keep their current value.
func (s *UserService) UpdateMe(ctx context.Context, userID, name, email, photo string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		user.Email = email
	}
	if photo != "" {
		user.Photo = photo
	}

	updated, err := s.repo.Update(ctx, userID, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.NewStatusError(http.StatusBadRequest, "That email address is already in use.")
		}
		s.logger.Error("failed to update user", slog.String("user_id", userID), slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("user profile updated", slog.String("user_id", userID))
	return updated, nil
}

// UpdateRole is the admin path; it can reassign a user's role.
func (s *UserService) UpdateRole(ctx context.Context, userID string, role models.Role) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	updated, err := s.repo.Update(ctx, userID, user)
	if err != nil {
		s.logger.Error("failed to update role", slog.String("user_id", userID), slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("user role updated",
		slog.String("user_id", userID),
		slog.String("role", string(role)))
	return updated, nil
}

// DeactivateMe soft-deletes the caller's account. The record stays for
// referential integrity but disappears from all normal queries.
func (s *UserService) DeactivateMe(ctx context.Context, userID string) error {
	if err := s.repo.Deactivate(ctx, userID); err != nil {
		s.logger.Error("failed to deactivate user", slog.String("user_id", userID), slog.Any("error", err))
		return err
	}

	s.logger.Info("user deactivated", slog.String("user_id", userID))
	return nil
}
