package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nshrestha/trailbook/internal/models"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"The Forest Hiker":        "the-forest-hiker",
		"  Sea   Explorer!  ":     "sea-explorer",
		"Ålesund & Fjords (2026)": "lesund-fjords-2026",
		"snow":                    "snow",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestTourService_Create_SetsSlug(t *testing.T) {
	repo := &MockTourRepository{
		CreateFunc: func(ctx context.Context, tour *models.Tour) (*models.Tour, error) {
			tour.ID = "tour123"
			return tour, nil
		},
	}

	svc := NewTourService(repo, slog.Default())
	tour, err := svc.Create(context.Background(), &models.Tour{
		Name:       "The Forest Hiker",
		Price:      497,
		Difficulty: models.DifficultyMedium,
	})

	require.NoError(t, err)
	assert.Equal(t, "the-forest-hiker", tour.Slug)
}

func TestTourService_Create_Validation(t *testing.T) {
	svc := NewTourService(&MockTourRepository{}, slog.Default())

	_, err := svc.Create(context.Background(), &models.Tour{Name: "  ", Price: 100})
	require.Error(t, err)
	assert.Equal(t, 400, models.StatusCode(err))

	_, err = svc.Create(context.Background(), &models.Tour{Name: "Freebie", Price: 0})
	require.Error(t, err)
	assert.Equal(t, 400, models.StatusCode(err))
}

func TestTourService_Update_SlugFollowsRename(t *testing.T) {
	current := &models.Tour{ID: "tour123", Name: "The Forest Hiker", Slug: "the-forest-hiker"}
	repo := &MockTourRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Tour, error) {
			return current, nil
		},
		UpdateFunc: func(ctx context.Context, id string, tour *models.Tour) (*models.Tour, error) {
			return tour, nil
		},
	}

	svc := NewTourService(repo, slog.Default())

	updated, err := svc.Update(context.Background(), "tour123", &models.Tour{Name: "The Mountain Hiker", Price: 500})
	require.NoError(t, err)
	assert.Equal(t, "the-mountain-hiker", updated.Slug)

	// Same name keeps the existing slug
	updated, err = svc.Update(context.Background(), "tour123", &models.Tour{Name: "The Forest Hiker", Price: 550})
	require.NoError(t, err)
	assert.Equal(t, "the-forest-hiker", updated.Slug)
}
