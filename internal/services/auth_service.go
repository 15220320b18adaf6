package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nshrestha/trailbook/internal/auth"
	"github.com/nshrestha/trailbook/internal/metrics"
	"github.com/nshrestha/trailbook/internal/models"
	pkgauth "github.com/nshrestha/trailbook/pkg/auth"
)

// passwordChangedSafetyMargin backdates the password-change stamp so a
// session token issued in the same instant as the change is still valid.
const passwordChangedSafetyMargin = 1 * time.Second

// UserRepository is the credential-store surface the auth service needs.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id string) error
}

// AuthService handles signup, login, and the password reset/change flows.
type AuthService struct {
	repo     UserRepository
	tm       *auth.TokenManager
	mailer   Mailer
	logger   *slog.Logger
	resetTTL time.Duration
	baseURL  string
}

func NewAuthService(repo UserRepository, tm *auth.TokenManager, mailer Mailer, logger *slog.Logger, resetTTL time.Duration, baseURL string) *AuthService {
	return &AuthService{
		repo:     repo,
		tm:       tm,
		mailer:   mailer,
		logger:   logger,
		resetTTL: resetTTL,
		baseURL:  baseURL,
	}
}

// validateNewPassword runs the checks every password-setting path shares:
// confirmation match first, then the length policy.
func validateNewPassword(password, passwordConfirm string) error {
	if password != passwordConfirm {
		return models.NewStatusError(http.StatusBadRequest, "Passwords do not match!")
	}
	if err := pkgauth.ValidatePassword(password); err != nil {
		return models.NewStatusError(http.StatusBadRequest, "%s", err.Error())
	}
	return nil
}

// Signup creates a user and logs them in. Nothing is persisted when the
// password confirmation does not match.
func (s *AuthService) Signup(ctx context.Context, name, email, password, passwordConfirm string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" {
		return nil, "", models.NewStatusError(http.StatusBadRequest, "Please provide name and email!")
	}
	if err := validateNewPassword(password, passwordConfirm); err != nil {
		return nil, "", err
	}

	passwordHash, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	user, err := s.repo.Create(ctx, &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("signup failed: email already registered")
			return nil, "", err
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	// Welcome mail failure must not roll back a completed signup
	if err := s.mailer.SendWelcome(ctx, user.Email, user.Name); err != nil {
		s.logger.Warn("failed to send welcome email",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	}

	token, err := s.tm.Issue(user.ID)
	if err != nil {
		s.logger.Error("failed to issue token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	s.logger.Info("user signed up", slog.String("user_id", user.ID))
	return user, token, nil
}

// Login authenticates an email/password pair. The failure message never
// reveals whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", models.NewStatusError(http.StatusBadRequest, "Please provide email and password!")
	}

	incorrect := models.NewStatusError(http.StatusUnauthorized, "Incorrect email or password")

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: invalid credentials")
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, "", incorrect
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed: invalid credentials", slog.String("user_id", user.ID))
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, "", incorrect
	}

	token, err := s.tm.Issue(user.ID)
	if err != nil {
		s.logger.Error("failed to issue token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	return user, token, nil
}

// ForgotPassword generates a single-use reset token, persists only its hash,
// and mails the raw value. If delivery fails the stored token is rolled back
// before the error surfaces: a token the user never received must not stay
// valid.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Leaks account existence; kept to match current product
			// behavior, pending sign-off on an opaque response.
			return models.NewStatusError(http.StatusNotFound, "There is no user with that email address.")
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return models.ErrInternalServer
	}

	rawToken, tokenHash, err := pkgauth.GenerateResetToken()
	if err != nil {
		s.logger.Error("failed to generate reset token", slog.Any("error", err))
		return models.ErrInternalServer
	}

	expiresAt := time.Now().Add(s.resetTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		s.logger.Error("failed to store reset token", slog.String("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/reset-password/%s", s.baseURL, rawToken)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, resetURL); err != nil {
		s.logger.Error("failed to send reset email, rolling back token",
			slog.String("user_id", user.ID),
			slog.Any("error", err))

		if clearErr := s.repo.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.logger.Error("failed to roll back reset token",
				slog.String("user_id", user.ID),
				slog.Any("error", clearErr))
		}
		return models.ErrEmailDelivery
	}

	metrics.PasswordResetsTotal.WithLabelValues("requested").Inc()
	s.logger.Info("password reset token sent", slog.String("user_id", user.ID))
	return nil
}

// ResetPassword redeems a raw reset token. The token is single-use: the
// password update clears the stored hash, so a second attempt with the same
// raw token fails the lookup.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, password, passwordConfirm string) (*models.User, string, error) {
	tokenHash := pkgauth.HashResetToken(rawToken)

	user, err := s.repo.GetByResetTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("password reset with invalid or expired token")
			return nil, "", models.ErrResetTokenInvalid
		}
		s.logger.Error("failed to look up reset token", slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	if err := validateNewPassword(password, passwordConfirm); err != nil {
		return nil, "", err
	}

	passwordHash, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	changedAt := time.Now().Add(-passwordChangedSafetyMargin)
	if err := s.repo.UpdatePassword(ctx, user.ID, passwordHash, changedAt); err != nil {
		s.logger.Error("failed to update password", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	// Auto-login after a successful reset
	token, err := s.tm.Issue(user.ID)
	if err != nil {
		s.logger.Error("failed to issue token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	metrics.PasswordResetsTotal.WithLabelValues("completed").Inc()
	s.logger.Info("password reset completed", slog.String("user_id", user.ID))
	user.PasswordChangedAt = &changedAt
	return user, token, nil
}

// UpdatePassword changes the password of an authenticated user after
// re-verifying the current one against the stored hash.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, currentPassword, password, passwordConfirm string) (*models.User, string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", models.ErrUnauthorized
		}
		s.logger.Error("failed to get user", slog.String("user_id", userID), slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		s.logger.Info("password change rejected: wrong current password", slog.String("user_id", user.ID))
		return nil, "", models.NewStatusError(http.StatusUnauthorized, "Your current password is wrong.")
	}

	if err := validateNewPassword(password, passwordConfirm); err != nil {
		return nil, "", err
	}

	passwordHash, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	changedAt := time.Now().Add(-passwordChangedSafetyMargin)
	if err := s.repo.UpdatePassword(ctx, user.ID, passwordHash, changedAt); err != nil {
		s.logger.Error("failed to update password", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	token, err := s.tm.Issue(user.ID)
	if err != nil {
		s.logger.Error("failed to issue token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	s.logger.Info("password changed", slog.String("user_id", user.ID))
	user.PasswordChangedAt = &changedAt
	return user, token, nil
}
