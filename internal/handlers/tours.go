package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nshrestha/trailbook/internal/models"
	"github.com/nshrestha/trailbook/internal/repositories"
	pkghttp "github.com/nshrestha/trailbook/pkg/http"
)

// TourServiceInterface defines the interface for the tour catalog
type TourServiceInterface interface {
	List(ctx context.Context, opts repositories.TourListOptions) ([]*models.Tour, error)
	GetByID(ctx context.Context, id string) (*models.Tour, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tour, error)
	Create(ctx context.Context, tour *models.Tour) (*models.Tour, error)
	Update(ctx context.Context, id string, tour *models.Tour) (*models.Tour, error)
	Delete(ctx context.Context, id string) error
}

type TourHandler struct {
	service TourServiceInterface
	errors  *ErrorNormalizer
}

func NewTourHandler(service TourServiceInterface, errors *ErrorNormalizer) *TourHandler {
	return &TourHandler{service: service, errors: errors}
}

type TourRequest struct {
	Name         string  `json:"name" validate:"required,min=3,max=120"`
	DurationDays int     `json:"durationDays" validate:"required,gte=1"`
	MaxGroupSize int     `json:"maxGroupSize" validate:"required,gte=1"`
	Difficulty   string  `json:"difficulty" validate:"required,oneof=easy medium difficult"`
	Price        float64 `json:"price" validate:"required,gte=1"`
	Summary      string  `json:"summary" validate:"required,max=300"`
	Description  string  `json:"description" validate:"omitempty"`
	ImageCover   string  `json:"imageCover" validate:"omitempty,max=255"`
}

type TourResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	DurationDays    int       `json:"durationDays"`
	MaxGroupSize    int       `json:"maxGroupSize"`
	Difficulty      string    `json:"difficulty"`
	Price           float64   `json:"price"`
	Summary         string    `json:"summary"`
	Description     string    `json:"description,omitempty"`
	ImageCover      string    `json:"imageCover,omitempty"`
	RatingsAverage  float64   `json:"ratingsAverage"`
	RatingsQuantity int       `json:"ratingsQuantity"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toTourResponse(tour *models.Tour) TourResponse {
	return TourResponse{
		ID:              tour.ID,
		Name:            tour.Name,
		Slug:            tour.Slug,
		DurationDays:    tour.DurationDays,
		MaxGroupSize:    tour.MaxGroupSize,
		Difficulty:      string(tour.Difficulty),
		Price:           tour.Price,
		Summary:         tour.Summary,
		Description:     tour.Description,
		ImageCover:      tour.ImageCover,
		RatingsAverage:  tour.RatingsAverage,
		RatingsQuantity: tour.RatingsQuantity,
		CreatedAt:       tour.CreatedAt,
	}
}

func (req *TourRequest) toModel() *models.Tour {
	return &models.Tour{
		Name:         req.Name,
		DurationDays: req.DurationDays,
		MaxGroupSize: req.MaxGroupSize,
		Difficulty:   models.Difficulty(req.Difficulty),
		Price:        req.Price,
		Summary:      req.Summary,
		Description:  req.Description,
		ImageCover:   req.ImageCover,
	}
}

// List serves the catalog with query-string filtering, sorting, and
// pagination, e.g. ?difficulty=easy&maxPrice=500&sort=-price&limit=10.
func (h *TourHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := repositories.TourListOptions{
		Difficulty: q.Get("difficulty"),
		SortBy:     q.Get("sort"),
	}
	if v := q.Get("maxPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "maxPrice must be a number"))
			return
		}
		opts.MaxPrice = price
	}
	opts.Limit, _ = strconv.Atoi(q.Get("limit"))
	opts.Offset, _ = strconv.Atoi(q.Get("offset"))

	tours, err := h.service.List(r.Context(), opts)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	out := make([]TourResponse, 0, len(tours))
	for _, tour := range tours {
		out = append(out, toTourResponse(tour))
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"tours": out})
}

func (h *TourHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tour, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"tour": toTourResponse(tour)})
}

func (h *TourHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := ValidateRequest(req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "%s", err.Error()))
		return
	}

	tour, err := h.service.Create(r.Context(), req.toModel())
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, map[string]any{"tour": toTourResponse(tour)})
}

func (h *TourHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req TourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := ValidateRequest(req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "%s", err.Error()))
		return
	}

	tour, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.toModel())
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"tour": toTourResponse(tour)})
}

func (h *TourHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
