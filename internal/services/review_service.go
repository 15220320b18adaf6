package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nshrestha/trailbook/internal/models"
)

// ReviewRepository is the store surface for tour reviews.
type ReviewRepository interface {
	ListByTour(ctx context.Context, tourID string) ([]*models.Review, error)
	GetByID(ctx context.Context, id string) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	Update(ctx context.Context, id string, rating int, text string) (*models.Review, error)
	Delete(ctx context.Context, id string) error
}

// RatingsRecalculator refreshes a tour's aggregate rating columns.
type RatingsRecalculator interface {
	RecalculateRatings(ctx context.Context, tourID string) error
}

type ReviewService struct {
	repo    ReviewRepository
	ratings RatingsRecalculator
	logger  *slog.Logger
}

func NewReviewService(repo ReviewRepository, ratings RatingsRecalculator, logger *slog.Logger) *ReviewService {
	return &ReviewService{repo: repo, ratings: ratings, logger: logger}
}

func (s *ReviewService) ListByTour(ctx context.Context, tourID string) ([]*models.Review, error) {
	return s.repo.ListByTour(ctx, tourID)
}

func validateReview(rating int, text string) error {
	if rating < 1 || rating > 5 {
		return models.NewStatusError(http.StatusBadRequest, "Rating must be between 1 and 5")
	}
	if strings.TrimSpace(text) == "" {
		return models.NewStatusError(http.StatusBadRequest, "Review can not be empty!")
	}
	return nil
}

func (s *ReviewService) Create(ctx context.Context, tourID, userID string, rating int, text string) (*models.Review, error) {
	if err := validateReview(rating, text); err != nil {
		return nil, err
	}

	review, err := s.repo.Create(ctx, &models.Review{
		TourID: tourID,
		UserID: userID,
		Rating: rating,
		Review: strings.TrimSpace(text),
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.NewStatusError(http.StatusBadRequest, "You have already reviewed this tour")
		}
		s.logger.Error("failed to create review",
			slog.String("tour_id", tourID),
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, err
	}

	s.recalculate(ctx, tourID)

	s.logger.Info("review created",
		slog.String("review_id", review.ID),
		slog.String("tour_id", tourID))
	return review, nil
}

// Update modifies a review. Only its author or an admin may touch it.
func (s *ReviewService) Update(ctx context.Context, reviewID string, actor *models.User, rating int, text string) (*models.Review, error) {
	review, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != actor.ID && actor.Role != models.RoleAdmin {
		return nil, models.ErrForbidden
	}
	if err := validateReview(rating, text); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, reviewID, rating, strings.TrimSpace(text))
	if err != nil {
		s.logger.Error("failed to update review", slog.String("review_id", reviewID), slog.Any("error", err))
		return nil, err
	}

	s.recalculate(ctx, review.TourID)
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, reviewID string, actor *models.User) error {
	review, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != actor.ID && actor.Role != models.RoleAdmin {
		return models.ErrForbidden
	}

	if err := s.repo.Delete(ctx, reviewID); err != nil {
		s.logger.Error("failed to delete review", slog.String("review_id", reviewID), slog.Any("error", err))
		return err
	}

	s.recalculate(ctx, review.TourID)

	s.logger.Info("review deleted", slog.String("review_id", reviewID))
	return nil
}

// recalculate refreshes the tour's aggregates after a review write. A
// failure here leaves the aggregates stale but never fails the write.
func (s *ReviewService) recalculate(ctx context.Context, tourID string) {
	if err := s.ratings.RecalculateRatings(ctx, tourID); err != nil {
		s.logger.Warn("failed to recalculate tour ratings",
			slog.String("tour_id", tourID),
			slog.Any("error", err))
	}
}
