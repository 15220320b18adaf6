package handlers

import (
	"context"
	"encoding/json"
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
)

// mockAuthService implements AuthServiceInterface for testing
type mockAuthService struct {
	SignupFunc         func(ctx context.Context, name, email, password, passwordConfirm string) (*models.User, string, error)
	LoginFunc          func(ctx context.Context, email, password string) (*models.User, string, error)
	ForgotPasswordFunc func(ctx context.Context, email string) error
	ResetPasswordFunc  func(ctx context.Context, rawToken, password, passwordConfirm string) (*models.User, string, error)
	UpdatePasswordFunc func(ctx context.Context, userID, currentPassword, password, passwordConfirm string) (*models.User, string, error)
}

func (m *mockAuthService) Signup(ctx context.Context, name, email, password, passwordConfirm string) (*models.User, string, error) {
	return m.SignupFunc(ctx, name, email, password, passwordConfirm)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	return m.LoginFunc(ctx, email, password)
}

func (m *mockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.ForgotPasswordFunc(ctx, email)
}

func (m *mockAuthService) ResetPassword(ctx context.Context, rawToken, password, passwordConfirm string) (*models.User, string, error) {
	return m.ResetPasswordFunc(ctx, rawToken, password, passwordConfirm)
}

func (m *mockAuthService) UpdatePassword(ctx context.Context, userID, currentPassword, password, passwordConfirm string) (*models.User, string, error) {
	return m.UpdatePasswordFunc(ctx, userID, currentPassword, password, passwordConfirm)
}

func newAuthHandlerForTest(svc AuthServiceInterface) *AuthHandler {
	cookies := auth.CookieConfig{Expiry: 24 * time.Hour}
	normalizer := NewErrorNormalizer("production", slog.Default())
	return NewAuthHandler(svc, cookies, normalizer)
}

func testUser() *models.User {
	return &models.User{ID: "user123", Name: "Jane", Email: "jane@example.com", Role: models.RoleUser, Active: true}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	svc := &mockAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (*models.User, string, error) {
			return testUser(), "signed.jwt.token", nil
		},
	}
	h := newAuthHandlerForTest(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
		strings.NewReader(`{"email":"jane@example.com","password":"pass1234"}`))

	h.Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie, "login must set the session cookie")
	assert.Equal(t, "signed.jwt.token", cookie.Value)
	assert.True(t, cookie.HttpOnly)

	var env struct {
		Status string `json:"status"`
		Token  string `json:"token"`
		Data   struct {
			User UserResponse `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "signed.jwt.token", env.Token)
	assert.Equal(t, "jane@example.com", env.Data.User.Email)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAuthHandler_Login_ServiceErrorRendered(t *testing.T) {
	svc := &mockAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (*models.User, string, error) {
			return nil, "", models.NewStatusError(http.StatusUnauthorized, "Incorrect email or password")
		},
	}
	h := newAuthHandlerForTest(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
		strings.NewReader(`{"email":"jane@example.com","password":"wrong-pass"}`))

	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "fail", env.Status)
	assert.Equal(t, "Incorrect email or password", env.Message)
	assert.Nil(t, sessionCookie(t, rec))
}

func TestAuthHandler_Login_RejectsInvalidBody(t *testing.T) {
	h := newAuthHandlerForTest(&mockAuthService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(`{not json`))

	h.Login(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Login_RejectsMissingEmail(t *testing.T) {
	h := newAuthHandlerForTest(&mockAuthService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
		strings.NewReader(`{"password":"pass1234"}`))

	h.Login(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	h := newAuthHandlerForTest(&mockAuthService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)

	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "loggedout", cookie.Value)
}

func TestAuthHandler_UpdatePassword_RequiresUser(t *testing.T) {
	h := newAuthHandlerForTest(&mockAuthService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/update-password",
		strings.NewReader(`{"passwordCurrent":"a","password":"b","passwordConfirm":"b"}`))

	h.UpdatePassword(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_UpdatePassword_RotatesCookie(t *testing.T) {
	svc := &mockAuthService{
		UpdatePasswordFunc: func(ctx context.Context, userID, currentPassword, password, passwordConfirm string) (*models.User, string, error) {
			assert.Equal(t, "user123", userID)
			return testUser(), "fresh.jwt.token", nil
		},
	}
	h := newAuthHandlerForTest(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/update-password",
		strings.NewReader(`{"passwordCurrent":"oldpass12","password":"newpass12","passwordConfirm":"newpass12"}`))
	req = req.WithContext(auth.ContextWithUser(req.Context(), testUser()))

	h.UpdatePassword(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "fresh.jwt.token", cookie.Value)
}
