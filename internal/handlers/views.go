package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nshrestha/trailbook/internal/auth"
	"github.com/nshrestha/trailbook/internal/models"
	"github.com/nshrestha/trailbook/internal/repositories"
	"github.com/nshrestha/trailbook/internal/views"
)

// ViewHandler serves the rendered HTML pages. All pages tolerate an
// anonymous visitor; the protected ones sit behind the session
// middleware in the router.
type ViewHandler struct {
	renderer *views.Renderer
	tours    TourServiceInterface
	reviews  ReviewServiceInterface
	bookings BookingServiceInterface
	errors   *ErrorNormalizer
}

func NewViewHandler(renderer *views.Renderer, tours TourServiceInterface, reviews ReviewServiceInterface, bookings BookingServiceInterface, errors *ErrorNormalizer) *ViewHandler {
	return &ViewHandler{
		renderer: renderer,
		tours:    tours,
		reviews:  reviews,
		bookings: bookings,
		errors:   errors,
	}
}

// Overview renders the tour catalog landing page.
func (h *ViewHandler) Overview(w http.ResponseWriter, r *http.Request) {
	tours, err := h.tours.List(r.Context(), repositories.TourListOptions{})
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	h.renderer.Render(w, "overview", views.PageData{
		Title: "All Tours",
		User:  auth.UserFromContext(r.Context()),
		Data:  tours,
	})
}

// tourPageData bundles the tour and its reviews for the detail page.
type tourPageData struct {
	Tour    *models.Tour
	Reviews []*models.Review
}

// Tour renders a tour detail page by slug.
func (h *ViewHandler) Tour(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	tour, err := h.tours.GetBySlug(r.Context(), slug)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	reviews, err := h.reviews.ListByTour(r.Context(), tour.ID)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	h.renderer.Render(w, "tour", views.PageData{
		Title: tour.Name,
		User:  auth.UserFromContext(r.Context()),
		Data:  tourPageData{Tour: tour, Reviews: reviews},
	})
}

func (h *ViewHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, "login", views.PageData{
		Title: "Log In",
		User:  auth.UserFromContext(r.Context()),
	})
}

func (h *ViewHandler) Signup(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, "signup", views.PageData{
		Title: "Sign Up",
		User:  auth.UserFromContext(r.Context()),
	})
}

// Account renders the profile settings page.
func (h *ViewHandler) Account(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		h.errors.WriteError(w, r, models.ErrUnauthorized)
		return
	}

	h.renderer.Render(w, "account", views.PageData{
		Title: "Your Account",
		User:  user,
	})
}

// MyTours renders the authenticated user's bookings.
func (h *ViewHandler) MyTours(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		h.errors.WriteError(w, r, models.ErrUnauthorized)
		return
	}

	bookings, err := h.bookings.MyBookings(r.Context(), user.ID)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	h.renderer.Render(w, "mytours", views.PageData{
		Title: "My Tours",
		User:  user,
		Data:  bookings,
	})
}
