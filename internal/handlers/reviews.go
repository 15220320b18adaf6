package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nshrestha/trailbook/internal/auth"
	"github.com/nshrestha/trailbook/internal/models"
	pkghttp "github.com/nshrestha/trailbook/pkg/http"
)

// ReviewServiceInterface defines the interface for tour reviews
type ReviewServiceInterface interface {
	ListByTour(ctx context.Context, tourID string) ([]*models.Review, error)
	Create(ctx context.Context, tourID, userID string, rating int, text string) (*models.Review, error)
	Update(ctx context.Context, reviewID string, actor *models.User, rating int, text string) (*models.Review, error)
	Delete(ctx context.Context, reviewID string, actor *models.User) error
}

type ReviewHandler struct {
	service ReviewServiceInterface
	errors  *ErrorNormalizer
}

func NewReviewHandler(service ReviewServiceInterface, errors *ErrorNormalizer) *ReviewHandler {
	return &ReviewHandler{service: service, errors: errors}
}

type ReviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Review string `json:"review" validate:"required,min=1"`
}

type ReviewResponse struct {
	ID        string    `json:"id"`
	TourID    string    `json:"tourId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review"`
	UserName  string    `json:"userName,omitempty"`
	UserPhoto string    `json:"userPhoto,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toReviewResponse(review *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID,
		TourID:    review.TourID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Review:    review.Review,
		UserName:  review.UserName,
		UserPhoto: review.UserPhoto,
		CreatedAt: review.CreatedAt,
	}
}

// ListByTour serves all reviews of a tour, newest first.
func (h *ReviewHandler) ListByTour(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListByTour(r.Context(), chi.URLParam(r, "tourID"))
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	out := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, toReviewResponse(review))
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"reviews": out})
}

// Create posts a review on a tour as the authenticated user.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		h.errors.WriteError(w, r, models.ErrUnauthorized)
		return
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := ValidateRequest(req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "%s", err.Error()))
		return
	}

	review, err := h.service.Create(r.Context(), chi.URLParam(r, "tourID"), user.ID, req.Rating, req.Review)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, map[string]any{"review": toReviewResponse(review)})
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		h.errors.WriteError(w, r, models.ErrUnauthorized)
		return
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := ValidateRequest(req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "%s", err.Error()))
		return
	}

	review, err := h.service.Update(r.Context(), chi.URLParam(r, "reviewID"), user, req.Rating, req.Review)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"review": toReviewResponse(review)})
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		h.errors.WriteError(w, r, models.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "reviewID"), user); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
