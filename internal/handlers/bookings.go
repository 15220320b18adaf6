package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nshrestha/trailbook/internal/auth"
	"github.com/nshrestha/trailbook/internal/models"
	pkghttp "github.com/nshrestha/trailbook/pkg/http"
)

// BookingServiceInterface defines the interface for bookings
type BookingServiceInterface interface {
	CreateCheckoutSession(ctx context.Context, user *models.User, tourID string) (string, error)
	MyBookings(ctx context.Context, userID string) ([]*models.Booking, error)
}

type BookingHandler struct {
	service BookingServiceInterface
	errors  *ErrorNormalizer
}

func NewBookingHandler(service BookingServiceInterface, errors *ErrorNormalizer) *BookingHandler {
	return &BookingHandler{service: service, errors: errors}
}

type BookingResponse struct {
	ID        string    `json:"id"`
	TourID    string    `json:"tourId"`
	TourName  string    `json:"tourName,omitempty"`
	TourSlug  string    `json:"tourSlug,omitempty"`
	Price     float64   `json:"price"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `json:"createdAt"`
}

func toBookingResponse(booking *models.Booking) BookingResponse {
	return BookingResponse{
		ID:        booking.ID,
		TourID:    booking.TourID,
		TourName:  booking.TourName,
		TourSlug:  booking.TourSlug,
		Price:     booking.Price,
		Paid:      booking.Paid,
		CreatedAt: booking.CreatedAt,
	}
}

// CheckoutSession starts a checkout for the tour in the URL and returns
// the payment page URL for the client to redirect to.
func (h *BookingHandler) CheckoutSession(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		h.errors.WriteError(w, r, models.ErrUnauthorized)
		return
	}

	checkoutURL, err := h.service.CreateCheckoutSession(r.Context(), user, chi.URLParam(r, "tourID"))
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"checkoutUrl": checkoutURL})
}

// MyBookings lists the authenticated user's bookings.
func (h *BookingHandler) MyBookings(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		h.errors.WriteError(w, r, models.ErrUnauthorized)
		return
	}

	bookings, err := h.service.MyBookings(r.Context(), user.ID)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	out := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		out = append(out, toBookingResponse(booking))
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"bookings": out})
}
