package services

import (
	"context"
	"time"

	"github.com/nshrestha/trailbook/internal/models"
	"github.com/nshrestha/trailbook/internal/repositories"
	pkgauth "github.com/nshrestha/trailbook/pkg/auth"
)

// NewTestUser builds an active user with the given password hashed.
func NewTestUser(id, email, name, password string) *models.User {
	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return &models.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Active:       true,
		CreatedAt:    time.Now(),
	}
}

// MockUserRepository implements UserRepository and UserProfileRepository
// for testing
type MockUserRepository struct {
	GetByIDFunc             func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc          func(ctx context.Context, email string) (*models.User, error)
	GetByResetTokenHashFunc func(ctx context.Context, tokenHash string) (*models.User, error)
	ListFunc                func(ctx context.Context, limit, offset int) ([]*models.User, error)
	CreateFunc              func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc              func(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdatePasswordFunc      func(ctx context.Context, id, passwordHash string, changedAt time.Time) error
	SetResetTokenFunc       func(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	ClearResetTokenFunc     func(ctx context.Context, id string) error
	DeactivateFunc          func(ctx context.Context, id string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	if m.GetByResetTokenHashFunc != nil {
		return m.GetByResetTokenHashFunc(ctx, tokenHash)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash, changedAt)
	}
	return nil
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	if m.SetResetTokenFunc != nil {
		return m.SetResetTokenFunc(ctx, id, tokenHash, expiresAt)
	}
	return nil
}

func (m *MockUserRepository) ClearResetToken(ctx context.Context, id string) error {
	if m.ClearResetTokenFunc != nil {
		return m.ClearResetTokenFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) Deactivate(ctx context.Context, id string) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, id)
	}
	return nil
}

// MockMailer implements Mailer for testing
type MockMailer struct {
	SendWelcomeFunc       func(ctx context.Context, to, name string) error
	SendPasswordResetFunc func(ctx context.Context, to, name, resetURL string) error
}

func (m *MockMailer) SendWelcome(ctx context.Context, to, name string) error {
	if m.SendWelcomeFunc != nil {
		return m.SendWelcomeFunc(ctx, to, name)
	}
	return nil
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	if m.SendPasswordResetFunc != nil {
		return m.SendPasswordResetFunc(ctx, to, name, resetURL)
	}
	return nil
}

// MockTourRepository implements TourRepository for testing
type MockTourRepository struct {
	ListFunc      func(ctx context.Context, opts repositories.TourListOptions) ([]*models.Tour, error)
	GetByIDFunc   func(ctx context.Context, id string) (*models.Tour, error)
	GetBySlugFunc func(ctx context.Context, slug string) (*models.Tour, error)
	CreateFunc    func(ctx context.Context, tour *models.Tour) (*models.Tour, error)
	UpdateFunc    func(ctx context.Context, id string, tour *models.Tour) (*models.Tour, error)
	DeleteFunc    func(ctx context.Context, id string) error
}

func (m *MockTourRepository) List(ctx context.Context, opts repositories.TourListOptions) ([]*models.Tour, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, opts)
	}
	return []*models.Tour{}, nil
}

func (m *MockTourRepository) GetByID(ctx context.Context, id string) (*models.Tour, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockTourRepository) GetBySlug(ctx context.Context, slug string) (*models.Tour, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return nil, models.ErrNotFound
}

func (m *MockTourRepository) Create(ctx context.Context, tour *models.Tour) (*models.Tour, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tour)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTourRepository) Update(ctx context.Context, id string, tour *models.Tour) (*models.Tour, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, tour)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTourRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockReviewRepository implements ReviewRepository for testing
type MockReviewRepository struct {
	ListByTourFunc func(ctx context.Context, tourID string) ([]*models.Review, error)
	GetByIDFunc    func(ctx context.Context, id string) (*models.Review, error)
	CreateFunc     func(ctx context.Context, review *models.Review) (*models.Review, error)
	UpdateFunc     func(ctx context.Context, id string, rating int, text string) (*models.Review, error)
	DeleteFunc     func(ctx context.Context, id string) error
}

func (m *MockReviewRepository) ListByTour(ctx context.Context, tourID string) ([]*models.Review, error) {
	if m.ListByTourFunc != nil {
		return m.ListByTourFunc(ctx, tourID)
	}
	return []*models.Review{}, nil
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, review)
	}
	return nil, models.ErrInternalServer
}

func (m *MockReviewRepository) Update(ctx context.Context, id string, rating int, text string) (*models.Review, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, rating, text)
	}
	return nil, models.ErrInternalServer
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockRatingsRecalculator implements RatingsRecalculator for testing
type MockRatingsRecalculator struct {
	RecalculateRatingsFunc func(ctx context.Context, tourID string) error
	Calls                  []string
}

func (m *MockRatingsRecalculator) RecalculateRatings(ctx context.Context, tourID string) error {
	m.Calls = append(m.Calls, tourID)
	if m.RecalculateRatingsFunc != nil {
		return m.RecalculateRatingsFunc(ctx, tourID)
	}
	return nil
}

// MockBookingRepository implements BookingRepository for testing
type MockBookingRepository struct {
	CreateFunc     func(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	ListByUserFunc func(ctx context.Context, userID string) ([]*models.Booking, error)
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, booking)
	}
	booking.ID = "booking123"
	return booking, nil
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []*models.Booking{}, nil
}
