package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nshrestha/trailbook/internal/auth"
	"github.com/nshrestha/trailbook/internal/models"
	pkghttp "github.com/nshrestha/trailbook/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Signup(ctx context.Context, name, email, password, passwordConfirm string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, password, passwordConfirm string) (*models.User, string, error)
	UpdatePassword(ctx context.Context, userID, currentPassword, password, passwordConfirm string) (*models.User, string, error)
}

// AuthHandler handles signup, login, and the password flows.
type AuthHandler struct {
	service AuthServiceInterface
	cookies auth.CookieConfig
	errors  *ErrorNormalizer
}

func NewAuthHandler(service AuthServiceInterface, cookies auth.CookieConfig, errors *ErrorNormalizer) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookies: cookies,
		errors:  errors,
	}
}

// Request DTOs

type SignupRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

// UserResponse is the client-safe projection of a user. Credential and
// reset columns never appear here.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo,omitempty"`
	Role  string `json:"role"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Photo: user.Photo,
		Role:  string(user.Role),
	}
}

// sendToken writes the session cookie and the token envelope. Every
// authentication path ends here.
func (h *AuthHandler) sendToken(w http.ResponseWriter, statusCode int, token string, user *models.User) {
	auth.SetSessionCookie(w, token, h.cookies)
	pkghttp.WriteToken(w, statusCode, token, map[string]any{"user": toUserResponse(user)})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := ValidateRequest(req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "%s", err.Error()))
		return
	}

	user, token, err := h.service.Signup(r.Context(), req.Name, req.Email, req.Password, req.PasswordConfirm)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	h.sendToken(w, http.StatusCreated, token, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := ValidateRequest(req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "%s", err.Error()))
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	h.sendToken(w, http.StatusOK, token, user)
}

// Logout clears the session cookie. Stateless tokens cannot be revoked,
// so the cookie overwrite is the whole logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cookies)
	pkghttp.WriteMessage(w, http.StatusOK, "Logged out")
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := ValidateRequest(req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "%s", err.Error()))
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	pkghttp.WriteMessage(w, http.StatusOK, "Token sent to email!")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	rawToken := chi.URLParam(r, "token")

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := ValidateRequest(req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "%s", err.Error()))
		return
	}

	user, token, err := h.service.ResetPassword(r.Context(), rawToken, req.Password, req.PasswordConfirm)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	h.sendToken(w, http.StatusOK, token, user)
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		h.errors.WriteError(w, r, models.ErrUnauthorized)
		return
	}

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := ValidateRequest(req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "%s", err.Error()))
		return
	}

	updated, token, err := h.service.UpdatePassword(r.Context(), user.ID, req.PasswordCurrent, req.Password, req.PasswordConfirm)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	h.sendToken(w, http.StatusOK, token, updated)
}
