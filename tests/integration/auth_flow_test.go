package integration

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nshrestha/trailbook/internal/auth"
	"github.com/nshrestha/trailbook/internal/models"
	"github.com/nshrestha/trailbook/internal/services"
)

const testJWTSecret = "integration-test-secret-32-chars"

// captureMailer records outbound mail so tests can pull the reset URL.
type captureMailer struct {
	resetURL string
	fail     bool
}

func (m *captureMailer) SendWelcome(_ context.Context, _, _ string) error { return nil }

func (m *captureMailer) SendPasswordReset(_ context.Context, _, _, resetURL string) error {
	if m.fail {
		return assert.AnError
	}
	m.resetURL = resetURL
	return nil
}

func rawTokenFromURL(t *testing.T, resetURL string) string {
	t.Helper()
	i := strings.LastIndex(resetURL, "/")
	require.Greater(t, i, 0, "reset URL %q has no token segment", resetURL)
	return resetURL[i+1:]
}

func TestPasswordResetFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	userRepo, _, _, _ := InitializeRepositories(testDB.DB)
	tm := auth.NewTokenManager(testJWTSecret, 1*time.Hour)
	mailer := &captureMailer{}
	svc := services.NewAuthService(userRepo, tm, mailer, slog.Default(), 10*time.Minute, "http://localhost:8080")

	// Signup and login with the original password
	user, _, err := svc.Signup(ctx, "Jane", "jane@example.com", "original1", "original1")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "jane@example.com", "original1")
	require.NoError(t, err)

	// Request a reset and redeem the mailed token
	require.NoError(t, svc.ForgotPassword(ctx, "jane@example.com"))
	raw := rawTokenFromURL(t, mailer.resetURL)

	_, freshToken, err := svc.ResetPassword(ctx, raw, "changed12", "changed12")
	require.NoError(t, err)
	assert.NotEmpty(t, freshToken)

	// Old password is dead, new one works
	_, _, err = svc.Login(ctx, "jane@example.com", "original1")
	assert.Error(t, err)
	_, _, err = svc.Login(ctx, "jane@example.com", "changed12")
	assert.NoError(t, err)

	// The token is single-use
	_, _, err = svc.ResetPassword(ctx, raw, "again1234", "again1234")
	assert.ErrorIs(t, err, models.ErrResetTokenInvalid)

	// The stored reset columns are cleared
	stored, err := userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasResetToken(time.Now()))
}

func TestPasswordChangeInvalidatesOldSessions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	userRepo, _, _, _ := InitializeRepositories(testDB.DB)
	tm := auth.NewTokenManager(testJWTSecret, 1*time.Hour)
	svc := services.NewAuthService(userRepo, tm, &captureMailer{}, slog.Default(), 10*time.Minute, "http://localhost:8080")

	_, oldToken, err := svc.Signup(ctx, "Jane", "jane@example.com", "original1", "original1")
	require.NoError(t, err)

	ew := &recordingErrorWriter{}
	sessions := auth.NewSessions(tm, userRepo, ew)
	protected := sessions.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(token string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		protected.ServeHTTP(rec, req)
		return rec.Code
	}

	// Session works before the change
	assert.Equal(t, http.StatusOK, serve(oldToken))

	// UpdatePassword stamps changed_at; wait past the token's second
	// granularity so the old issue time falls strictly before it
	time.Sleep(1100 * time.Millisecond)
	user, err := userRepo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	_, newToken, err := svc.UpdatePassword(ctx, user.ID, "original1", "changed12", "changed12")
	require.NoError(t, err)

	// Old session is rejected, the fresh one passes
	assert.Equal(t, http.StatusUnauthorized, serve(oldToken))
	assert.Equal(t, http.StatusOK, serve(newToken))
}

func TestDeliveryFailureLeavesNoValidToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	userRepo, _, _, _ := InitializeRepositories(testDB.DB)
	tm := auth.NewTokenManager(testJWTSecret, 1*time.Hour)
	svc := services.NewAuthService(userRepo, tm, &captureMailer{fail: true}, slog.Default(), 10*time.Minute, "http://localhost:8080")

	user, _, err := svc.Signup(ctx, "Jane", "jane@example.com", "original1", "original1")
	require.NoError(t, err)

	err = svc.ForgotPassword(ctx, "jane@example.com")
	assert.ErrorIs(t, err, models.ErrEmailDelivery)

	stored, err := userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasResetToken(time.Now()), "rolled-back token must not remain")
}

func TestSoftDeleteHidesUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	userRepo, _, _, _ := InitializeRepositories(testDB.DB)
	tm := auth.NewTokenManager(testJWTSecret, 1*time.Hour)
	svc := services.NewAuthService(userRepo, tm, &captureMailer{}, slog.Default(), 10*time.Minute, "http://localhost:8080")

	user, token, err := svc.Signup(ctx, "Jane", "jane@example.com", "original1", "original1")
	require.NoError(t, err)

	require.NoError(t, userRepo.Deactivate(ctx, user.ID))

	// Invisible to lookups and logins
	_, err = userRepo.GetByEmail(ctx, "jane@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, _, err = svc.Login(ctx, "jane@example.com", "original1")
	assert.Error(t, err)

	// An existing session dies with the account
	ew := &recordingErrorWriter{}
	sessions := auth.NewSessions(tm, userRepo, ew)
	protected := sessions.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// recordingErrorWriter maps errors to status codes without the full
// normalizer.
type recordingErrorWriter struct {
	lastErr error
}

func (e *recordingErrorWriter) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	e.lastErr = err
	w.WriteHeader(models.StatusCode(err))
}
