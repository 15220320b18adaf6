package integration

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nshrestha/trailbook/internal/auth"
	"github.com/nshrestha/trailbook/internal/models"
	"github.com/nshrestha/trailbook/internal/repositories"
	"github.com/nshrestha/trailbook/internal/services"
)

func TestReviewAggregatesAndBookings(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	userRepo, tourRepo, reviewRepo, bookingRepo := InitializeRepositories(testDB.DB)
	logger := slog.Default()

	tm := auth.NewTokenManager(testJWTSecret, 1*time.Hour)
	authSvc := services.NewAuthService(userRepo, tm, &captureMailer{}, logger, 10*time.Minute, "http://localhost:8080")
	tourSvc := services.NewTourService(tourRepo, logger)
	reviewSvc := services.NewReviewService(reviewRepo, tourRepo, logger)
	bookingSvc := services.NewBookingService(bookingRepo, tourRepo, services.NewDevCheckout(bookingRepo, logger), logger, "http://localhost:8080")

	tour, err := tourSvc.Create(ctx, &models.Tour{
		Name:         "The Forest Hiker",
		DurationDays: 5,
		MaxGroupSize: 25,
		Difficulty:   models.DifficultyEasy,
		Price:        397,
		Summary:      "Breathtaking hike",
	})
	require.NoError(t, err)
	assert.Equal(t, "the-forest-hiker", tour.Slug)

	alice, _, err := authSvc.Signup(ctx, "Alice", "alice@example.com", "password1", "password1")
	require.NoError(t, err)
	bob, _, err := authSvc.Signup(ctx, "Bob", "bob@example.com", "password1", "password1")
	require.NoError(t, err)

	// Two reviews roll up into the tour's aggregates
	_, err = reviewSvc.Create(ctx, tour.ID, alice.ID, 5, "Wonderful!")
	require.NoError(t, err)
	_, err = reviewSvc.Create(ctx, tour.ID, bob.ID, 3, "Decent.")
	require.NoError(t, err)

	refreshed, err := tourRepo.GetByID(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, refreshed.RatingsQuantity)
	assert.InDelta(t, 4.0, refreshed.RatingsAverage, 0.01)

	// One review per user per tour
	_, err = reviewSvc.Create(ctx, tour.ID, alice.ID, 4, "Again!")
	require.Error(t, err)

	// Reviews carry the author's display name
	reviews, err := reviewRepo.ListByTour(ctx, tour.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	names := []string{reviews[0].UserName, reviews[1].UserName}
	assert.Contains(t, names, "Alice")
	assert.Contains(t, names, "Bob")

	// Checkout records the booking and lists it with tour details
	_, err = bookingSvc.CreateCheckoutSession(ctx, alice, tour.ID)
	require.NoError(t, err)

	bookings, err := bookingSvc.MyBookings(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "The Forest Hiker", bookings[0].TourName)
	assert.Equal(t, "the-forest-hiker", bookings[0].TourSlug)
	assert.InDelta(t, 397, bookings[0].Price, 0.01)
	assert.True(t, bookings[0].Paid)
}

func TestTourFilteringAndSorting(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	_, tourRepo, _, _ := InitializeRepositories(testDB.DB)
	tourSvc := services.NewTourService(tourRepo, slog.Default())

	fixtures := []struct {
		name       string
		difficulty models.Difficulty
		price      float64
	}{
		{"Alpine Crossing", models.DifficultyDifficult, 900},
		{"River Walk", models.DifficultyEasy, 150},
		{"Canyon Trek", models.DifficultyMedium, 450},
	}
	for _, f := range fixtures {
		_, err := tourSvc.Create(ctx, &models.Tour{
			Name:         f.name,
			DurationDays: 3,
			MaxGroupSize: 10,
			Difficulty:   f.difficulty,
			Price:        f.price,
			Summary:      "fixture",
		})
		require.NoError(t, err)
	}

	easy, err := tourSvc.List(ctx, repositories.TourListOptions{Difficulty: "easy"})
	require.NoError(t, err)
	require.Len(t, easy, 1)
	assert.Equal(t, "River Walk", easy[0].Name)

	affordable, err := tourSvc.List(ctx, repositories.TourListOptions{MaxPrice: 500, SortBy: "price"})
	require.NoError(t, err)
	require.Len(t, affordable, 2)
	assert.Equal(t, "River Walk", affordable[0].Name)
	assert.Equal(t, "Canyon Trek", affordable[1].Name)

	expensiveFirst, err := tourSvc.List(ctx, repositories.TourListOptions{SortBy: "-price"})
	require.NoError(t, err)
	require.Len(t, expensiveFirst, 3)
	assert.Equal(t, "Alpine Crossing", expensiveFirst[0].Name)
}
