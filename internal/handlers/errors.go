package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/nshrestha/trailbook/internal/models"
)

// ErrorPageRenderer renders a human-facing error page. Wired in by the
// view layer; a nil renderer falls back to a plain text response.
type ErrorPageRenderer interface {
	RenderError(w http.ResponseWriter, statusCode int, message string)
}

// ErrorNormalizer is the single sink for handler and middleware errors.
// It classifies an error once, then emits either a JSON envelope (API
// paths) or an error page (everything else), with full detail in
// development and sanitized output in production.
type ErrorNormalizer struct {
	env    string
	logger *slog.Logger
	pages  ErrorPageRenderer
}

func NewErrorNormalizer(env string, logger *slog.Logger) *ErrorNormalizer {
	return &ErrorNormalizer{env: env, logger: logger}
}

// SetPageRenderer installs the renderer used for non-API error output.
func (n *ErrorNormalizer) SetPageRenderer(pages ErrorPageRenderer) {
	n.pages = pages
}

// errorEnvelope is the API error shape: {"status": "fail"|"error",
// "message": ...} plus raw detail and a stack trace in development.
type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// classification is the normalized form of an error, independent of the
// output format it will be rendered in.
type classification struct {
	code        int
	message     string
	operational bool
}

// classify resolves status code, safe message, and operationality before
// any bytes are written.
func (n *ErrorNormalizer) classify(err error) classification {
	c := classification{
		code:        models.StatusCode(err),
		operational: models.IsOperational(err),
	}

	var se *models.StatusError
	switch {
	case errors.As(err, &se):
		c.message = se.Message
	case errors.Is(err, models.ErrTokenExpired):
		c.message = "Your token has expired! Please log in again."
	case errors.Is(err, models.ErrTokenMalformed):
		c.message = "Invalid token. Please log in again."
	case errors.Is(err, models.ErrResetTokenInvalid):
		c.message = "Token is invalid or has expired"
	case errors.Is(err, models.ErrEmailDelivery):
		c.message = "There was an error sending the email. Try again later!"
	case errors.Is(err, models.ErrConflict):
		c.message = "Duplicate field value. Please use another value!"
	case errors.Is(err, models.ErrNotFound):
		c.message = "Resource not found"
	case errors.Is(err, models.ErrForbidden):
		c.message = "You do not have permission to perform this action"
	case errors.Is(err, models.ErrUnauthorized):
		c.message = "You are not logged in! Please log in to get access."
	case errors.Is(err, models.ErrBadRequest):
		c.message = "Invalid request"
	default:
		c.message = "Something went wrong!"
	}

	return c
}

// WriteError renders err to the client. Implements the error sink used by
// the session middleware.
func (n *ErrorNormalizer) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	c := n.classify(err)

	if !c.operational {
		// Programming or unknown error: full detail stays server-side
		n.logger.Error("unhandled error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}

	if strings.HasPrefix(r.URL.Path, "/api") {
		n.writeJSON(w, c, err)
		return
	}
	n.writePage(w, c)
}

func (n *ErrorNormalizer) writeJSON(w http.ResponseWriter, c classification, err error) {
	env := errorEnvelope{
		Status:  statusWord(c.code),
		Message: c.message,
	}

	if n.env == "development" {
		env.Error = err.Error()
		env.Stack = string(debug.Stack())
	} else if !c.operational {
		// Leak nothing about non-operational failures in production
		env.Message = "Something went wrong!"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(c.code)
	_ = json.NewEncoder(w).Encode(env)
}

func (n *ErrorNormalizer) writePage(w http.ResponseWriter, c classification) {
	message := c.message
	if n.env != "development" && !c.operational {
		message = "Please try again later."
	}

	if n.pages == nil {
		http.Error(w, message, c.code)
		return
	}
	n.pages.RenderError(w, c.code, message)
}

// statusWord maps an HTTP status code to the envelope status field:
// "fail" for client errors, "error" for server errors.
func statusWord(code int) string {
	if code >= 400 && code < 500 {
		return "fail"
	}
	return "error"
}
