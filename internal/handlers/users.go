package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nshrestha/trailbook/internal/auth"
	"github.com/nshrestha/trailbook/internal/models"
	pkghttp "github.com/nshrestha/trailbook/pkg/http"
)

// UserServiceInterface defines the interface for profile management
type UserServiceInterface interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateMe(ctx context.Context, userID, name, email, photo string) (*models.User, error)
	UpdateRole(ctx context.Context, userID string, role models.Role) (*models.User, error)
	DeactivateMe(ctx context.Context, userID string) error
}

type UserHandler struct {
	service UserServiceInterface
	errors  *ErrorNormalizer
}

func NewUserHandler(service UserServiceInterface, errors *ErrorNormalizer) *UserHandler {
	return &UserHandler{service: service, errors: errors}
}

type UpdateMeRequest struct {
	Name  string `json:"name" validate:"omitempty,min=1,max=100"`
	Email string `json:"email" validate:"omitempty,email"`
	Photo string `json:"photo" validate:"omitempty,max=255"`

	// Password fields are captured only to reject them; this route must
	// never change credentials.
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user guide lead-guide"`
}

// GetMe returns the authenticated user's own profile.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		h.errors.WriteError(w, r, models.ErrUnauthorized)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(user)})
}

// UpdateMe updates name, email, or photo. Password changes are refused
// here and directed to the password route.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		h.errors.WriteError(w, r, models.ErrUnauthorized)
		return
	}

	var req UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if req.Password != "" || req.PasswordConfirm != "" {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest,
			"This route is not for password updates. Please use /update-password."))
		return
	}
	if err := ValidateRequest(req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "%s", err.Error()))
		return
	}

	updated, err := h.service.UpdateMe(r.Context(), user.ID, req.Name, req.Email, req.Photo)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(updated)})
}

// DeleteMe soft-deletes the account and returns 204.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		h.errors.WriteError(w, r, models.ErrUnauthorized)
		return
	}

	if err := h.service.DeactivateMe(r.Context(), user.ID); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Admin endpoints

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"users": out})
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(user)})
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if err := ValidateRequest(req); err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "%s", err.Error()))
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		h.errors.WriteError(w, r, models.NewStatusError(http.StatusBadRequest, "%s", err.Error()))
		return
	}

	updated, err := h.service.UpdateRole(r.Context(), chi.URLParam(r, "id"), role)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(updated)})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeactivateMe(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
