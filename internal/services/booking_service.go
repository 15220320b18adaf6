package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/nshrestha/trailbook/internal/metrics"
	"github.com/nshrestha/trailbook/internal/models"
)

// BookingRepository is the store surface for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Booking, error)
}

// CheckoutProvider creates a hosted checkout session for a tour purchase
// and returns the URL to redirect the customer to.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, tour *models.Tour, user *models.User, successURL, cancelURL string) (string, error)
}

type BookingService struct {
	repo     BookingRepository
	tours    TourRepository
	checkout CheckoutProvider
	logger   *slog.Logger
	baseURL  string
}

func NewBookingService(repo BookingRepository, tours TourRepository, checkout CheckoutProvider, logger *slog.Logger, baseURL string) *BookingService {
	return &BookingService{
		repo:     repo,
		tours:    tours,
		checkout: checkout,
		logger:   logger,
		baseURL:  baseURL,
	}
}

// CreateCheckoutSession starts a checkout for the given tour and returns
// the redirect URL of the hosted payment page.
func (s *BookingService) CreateCheckoutSession(ctx context.Context, user *models.User, tourID string) (string, error) {
	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return "", err
	}

	successURL := fmt.Sprintf("%s/my-tours?alert=booking", s.baseURL)
	cancelURL := fmt.Sprintf("%s/tour/%s", s.baseURL, url.PathEscape(tour.Slug))

	checkoutURL, err := s.checkout.CreateCheckoutSession(ctx, tour, user, successURL, cancelURL)
	if err != nil {
		s.logger.Error("failed to create checkout session",
			slog.String("tour_id", tour.ID),
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	s.logger.Info("checkout session created",
		slog.String("tour_id", tour.ID),
		slog.String("user_id", user.ID))
	return checkoutURL, nil
}

// CompleteBooking records a paid booking. Called by the checkout
// provider's completion callback.
func (s *BookingService) CompleteBooking(ctx context.Context, userID, tourID string, price float64) (*models.Booking, error) {
	booking, err := s.repo.Create(ctx, &models.Booking{
		TourID: tourID,
		UserID: userID,
		Price:  price,
		Paid:   true,
	})
	if err != nil {
		s.logger.Error("failed to record booking",
			slog.String("tour_id", tourID),
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, err
	}

	metrics.BookingsTotal.Inc()
	s.logger.Info("booking recorded",
		slog.String("booking_id", booking.ID),
		slog.String("tour_id", tourID),
		slog.String("user_id", userID))
	return booking, nil
}

func (s *BookingService) MyBookings(ctx context.Context, userID string) ([]*models.Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

// DevCheckout is the development stand-in for a hosted payment page: it
// skips payment entirely and sends the customer straight to the success
// URL after recording the booking.
type DevCheckout struct {
	bookings BookingRepository
	logger   *slog.Logger
}

func NewDevCheckout(bookings BookingRepository, logger *slog.Logger) *DevCheckout {
	return &DevCheckout{bookings: bookings, logger: logger}
}

func (c *DevCheckout) CreateCheckoutSession(ctx context.Context, tour *models.Tour, user *models.User, successURL, cancelURL string) (string, error) {
	_, err := c.bookings.Create(ctx, &models.Booking{
		TourID: tour.ID,
		UserID: user.ID,
		Price:  tour.Price,
		Paid:   true,
	})
	if err != nil {
		return "", err
	}

	metrics.BookingsTotal.Inc()
	c.logger.Info("dev checkout: booking auto-completed",
		slog.String("tour_id", tour.ID),
		slog.String("user_id", user.ID))
	return successURL, nil
}
