package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/nshrestha/trailbook/internal/models"
	"github.com/nshrestha/trailbook/internal/repositories"
)

var slugStripper = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a tour name into its URL slug: lowercase, runs of
// non-alphanumerics collapsed to a single hyphen.
func Slugify(name string) string {
	slug := slugStripper.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// TourRepository is the store surface for the tour catalog.
type TourRepository interface {
	List(ctx context.Context, opts repositories.TourListOptions) ([]*models.Tour, error)
	GetByID(ctx context.Context, id string) (*models.Tour, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tour, error)
	Create(ctx context.Context, tour *models.Tour) (*models.Tour, error)
	Update(ctx context.Context, id string, tour *models.Tour) (*models.Tour, error)
	Delete(ctx context.Context, id string) error
}

type TourService struct {
	repo   TourRepository
	logger *slog.Logger
}

func NewTourService(repo TourRepository, logger *slog.Logger) *TourService {
	return &TourService{repo: repo, logger: logger}
}

func (s *TourService) List(ctx context.Context, opts repositories.TourListOptions) ([]*models.Tour, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.repo.List(ctx, opts)
}

func (s *TourService) GetByID(ctx context.Context, id string) (*models.Tour, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TourService) GetBySlug(ctx context.Context, slug string) (*models.Tour, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *TourService) Create(ctx context.Context, tour *models.Tour) (*models.Tour, error) {
	tour.Name = strings.TrimSpace(tour.Name)
	if tour.Name == "" {
		return nil, models.NewStatusError(http.StatusBadRequest, "A tour must have a name")
	}
	if tour.Price <= 0 {
		return nil, models.NewStatusError(http.StatusBadRequest, "A tour must have a positive price")
	}
	tour.Slug = Slugify(tour.Name)

	created, err := s.repo.Create(ctx, tour)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.NewStatusError(http.StatusBadRequest, "A tour with that name already exists")
		}
		s.logger.Error("failed to create tour", slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("tour created",
		slog.String("tour_id", created.ID),
		slog.String("slug", created.Slug))
	return created, nil
}

func (s *TourService) Update(ctx context.Context, id string, tour *models.Tour) (*models.Tour, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The slug follows the name so bookmarked tour pages only break when
	// the name actually changes.
	if name := strings.TrimSpace(tour.Name); name != "" && name != current.Name {
		tour.Name = name
		tour.Slug = Slugify(name)
	} else {
		tour.Name = current.Name
		tour.Slug = current.Slug
	}

	updated, err := s.repo.Update(ctx, id, tour)
	if err != nil {
		s.logger.Error("failed to update tour", slog.String("tour_id", id), slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("tour updated", slog.String("tour_id", id))
	return updated, nil
}

func (s *TourService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("failed to delete tour", slog.String("tour_id", id), slog.Any("error", err))
		}
		return err
	}

	s.logger.Info("tour deleted", slog.String("tour_id", id))
	return nil
}
