package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nshrestha/trailbook/internal/auth"
	"github.com/nshrestha/trailbook/internal/handlers"
	"github.com/nshrestha/trailbook/internal/middleware"
	"github.com/nshrestha/trailbook/internal/models"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Tours    *handlers.TourHandler
	Reviews  *handlers.ReviewHandler
	Bookings *handlers.BookingHandler
	Views    *handlers.ViewHandler
	Errors   *handlers.ErrorNormalizer
}

// RegisterRoutes registers the rendered pages and the /api/v1 surface.
func RegisterRoutes(router chi.Router, h Handlers, sessions *auth.Sessions) {
	// Rendered pages. OptionalAuth personalizes the header without
	// blocking anonymous visitors.
	router.Group(func(r chi.Router) {
		r.Use(sessions.OptionalAuth)
		r.Get("/", h.Views.Overview)
		r.Get("/tour/{slug}", h.Views.Tour)
		r.Get("/login", h.Views.Login)
		r.Get("/signup", h.Views.Signup)
	})

	router.Group(func(r chi.Router) {
		r.Use(sessions.RequireAuth)
		r.Get("/me", h.Views.Account)
		r.Get("/my-tours", h.Views.MyTours)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(middleware.DefaultAPIRateLimit()))

		authLimit := middleware.RateLimitByIP(middleware.DefaultAuthRateLimit())

		r.Route("/users", func(r chi.Router) {
			// Credential endpoints carry the tighter limit
			r.With(authLimit).Post("/signup", h.Auth.Signup)
			r.With(authLimit).Post("/login", h.Auth.Login)
			r.With(authLimit).Post("/forgot-password", h.Auth.ForgotPassword)
			r.With(authLimit).Patch("/reset-password/{token}", h.Auth.ResetPassword)
			r.Get("/logout", h.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(sessions.RequireAuth)
				r.Patch("/update-password", h.Auth.UpdatePassword)
				r.Get("/me", h.Users.GetMe)
				r.Patch("/update-me", h.Users.UpdateMe)
				r.Delete("/delete-me", h.Users.DeleteMe)

				// Admin-only user management
				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRole(h.Errors, models.RoleAdmin))
					r.Get("/", h.Users.List)
					r.Get("/{id}", h.Users.GetByID)
					r.Patch("/{id}", h.Users.UpdateRole)
					r.Delete("/{id}", h.Users.Delete)
				})
			})
		})

		r.Route("/tours", func(r chi.Router) {
			r.Get("/", h.Tours.List)
			r.Get("/{id}", h.Tours.GetByID)

			// Catalog writes are restricted to staff
			r.Group(func(r chi.Router) {
				r.Use(sessions.RequireAuth)
				r.Use(auth.RequireRole(h.Errors, models.RoleAdmin, models.RoleLeadGuide))
				r.Post("/", h.Tours.Create)
				r.Patch("/{id}", h.Tours.Update)
				r.Delete("/{id}", h.Tours.Delete)
			})

			// Reviews nested under their tour
			r.Route("/{tourID}/reviews", func(r chi.Router) {
				r.Get("/", h.Reviews.ListByTour)
				r.With(sessions.RequireAuth, auth.RequireRole(h.Errors, models.RoleUser)).
					Post("/", h.Reviews.Create)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Use(sessions.RequireAuth)
			r.Patch("/{reviewID}", h.Reviews.Update)
			r.Delete("/{reviewID}", h.Reviews.Delete)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Use(sessions.RequireAuth)
			r.Post("/checkout-session/{tourID}", h.Bookings.CheckoutSession)
			r.Get("/my", h.Bookings.MyBookings)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			h.Errors.WriteError(w, r, models.NewStatusError(http.StatusNotFound,
				"Can't find %s on this server!", r.URL.Path))
		})
	})
}
