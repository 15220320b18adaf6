package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nshrestha/trailbook/internal/models"
)

func TestReviewService_Create_RecalculatesRatings(t *testing.T) {
	repo := &MockReviewRepository{
		CreateFunc: func(ctx context.Context, review *models.Review) (*models.Review, error) {
			review.ID = "rev123"
			return review, nil
		},
	}
	ratings := &MockRatingsRecalculator{}

	svc := NewReviewService(repo, ratings, slog.Default())
	review, err := svc.Create(context.Background(), "tour123", "user123", 4, "Great guide!")

	require.NoError(t, err)
	assert.Equal(t, "rev123", review.ID)
	assert.Equal(t, []string{"tour123"}, ratings.Calls)
}

func TestReviewService_Create_RejectsOutOfRangeRating(t *testing.T) {
	ratings := &MockRatingsRecalculator{}
	svc := NewReviewService(&MockReviewRepository{}, ratings, slog.Default())

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), "tour123", "user123", rating, "text")
		require.Error(t, err)
		assert.Equal(t, 400, models.StatusCode(err))
	}
	assert.Empty(t, ratings.Calls)
}

func TestReviewService_Create_DuplicatePerTour(t *testing.T) {
	repo := &MockReviewRepository{
		CreateFunc: func(ctx context.Context, review *models.Review) (*models.Review, error) {
			return nil, models.ErrConflict
		},
	}

	svc := NewReviewService(repo, &MockRatingsRecalculator{}, slog.Default())
	_, err := svc.Create(context.Background(), "tour123", "user123", 5, "again")

	require.Error(t, err)
	assert.Equal(t, 400, models.StatusCode(err))
}

func TestReviewService_Update_OwnerOnly(t *testing.T) {
	owned := &models.Review{ID: "rev123", TourID: "tour123", UserID: "user123", Rating: 3, Review: "ok"}
	repo := &MockReviewRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Review, error) {
			return owned, nil
		},
		UpdateFunc: func(ctx context.Context, id string, rating int, text string) (*models.Review, error) {
			return &models.Review{ID: id, TourID: owned.TourID, UserID: owned.UserID, Rating: rating, Review: text}, nil
		},
	}

	stranger := &models.User{ID: "other", Role: models.RoleUser}
	admin := &models.User{ID: "admin1", Role: models.RoleAdmin}

	svc := NewReviewService(repo, &MockRatingsRecalculator{}, slog.Default())

	_, err := svc.Update(context.Background(), "rev123", stranger, 5, "hijack")
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = svc.Update(context.Background(), "rev123", admin, 5, "moderated")
	assert.NoError(t, err)
}

func TestReviewService_Delete_RecalculatesRatings(t *testing.T) {
	owned := &models.Review{ID: "rev123", TourID: "tour123", UserID: "user123"}
	repo := &MockReviewRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Review, error) {
			return owned, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error { return nil },
	}
	ratings := &MockRatingsRecalculator{}

	owner := &models.User{ID: "user123", Role: models.RoleUser}
	svc := NewReviewService(repo, ratings, slog.Default())

	require.NoError(t, svc.Delete(context.Background(), "rev123", owner))
	assert.Equal(t, []string{"tour123"}, ratings.Calls)
}
