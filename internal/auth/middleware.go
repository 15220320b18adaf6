package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nshrestha/trailbook/internal/models"
)

// contextKey is a custom type for context keys
type contextKey string

// userContextKey is the key under which the resolved user is stored.
const userContextKey contextKey = "user"

// UserResolver fetches a live user record for a verified token subject.
// Soft-deleted users must come back as models.ErrNotFound.
type UserResolver interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// ErrorWriter renders an error to the client. Implemented by the
// handlers.ErrorNormalizer; an interface here keeps the dependency pointing
// one way.
type ErrorWriter interface {
	WriteError(w http.ResponseWriter, r *http.Request, err error)
}

// Sessions resolves bearer tokens to users and guards protected routes.
type Sessions struct {
	tm     *TokenManager
	users  UserResolver
	errors ErrorWriter
}

func NewSessions(tm *TokenManager, users UserResolver, errors ErrorWriter) *Sessions {
	return &Sessions{tm: tm, users: users, errors: errors}
}

// RequireAuth rejects requests without a valid, fresh session. On success
// the resolved user is attached to the request context.
func (s *Sessions) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.resolve(r)
		if err != nil {
			s.errors.WriteError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// OptionalAuth resolves an identity when a valid token is present and
// silently continues as anonymous otherwise. Used for pages that render
// differently for logged-in visitors.
func (s *Sessions) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.resolve(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// resolve runs the full session check: locate a token, verify it, load the
// user, and reject tokens issued before the last password change.
func (s *Sessions) resolve(r *http.Request) (*models.User, error) {
	tokenString := extractToken(r)
	if tokenString == "" {
		return nil, models.NewStatusError(http.StatusUnauthorized,
			"You are not logged in! Please log in to get access.")
	}

	claims, err := s.tm.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewStatusError(http.StatusUnauthorized,
				"The user belonging to this token does no longer exist.")
		}
		return nil, err
	}

	if claims.IssuedAt != nil && user.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, models.NewStatusError(http.StatusUnauthorized,
			"User recently changed password! Please log in again.")
	}

	return user, nil
}

// extractToken prefers the Authorization header over the session cookie.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" && cookie.Value != "loggedout" {
		return cookie.Value
	}

	return ""
}

// RequireRole enforces role-based access after RequireAuth has attached a
// user. A missing user is a middleware-ordering bug; it fails safe with
// Forbidden rather than crashing.
func RequireRole(errWriter ErrorWriter, roles ...models.Role) func(next http.Handler) http.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				errWriter.WriteError(w, r, models.ErrForbidden)
				return
			}

			if _, ok := allowed[user.Role]; !ok {
				errWriter.WriteError(w, r, models.NewStatusError(http.StatusForbidden,
					"You do not have permission to perform this action"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ContextWithUser attaches a resolved user to a context.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the resolved user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
