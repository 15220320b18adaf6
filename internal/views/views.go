// Package views renders the server-side HTML pages from templates
// embedded in the binary.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/nshrestha/trailbook/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages are the content templates, each rendered inside layout.html.
var pages = []string{
	"overview", "tour", "login", "signup", "account", "mytours", "error",
}

// PageData is the payload every template receives. User is nil for
// anonymous visitors; Data carries the page-specific content.
type PageData struct {
	Title string
	User  *models.User
	Data  any
}

type Renderer struct {
	templates map[string]*template.Template
	logger    *slog.Logger
}

func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}
	return &Renderer{templates: templates, logger: logger}, nil
}

// Render writes the named page with a 200 status.
func (r *Renderer) Render(w http.ResponseWriter, page string, data PageData) {
	r.render(w, http.StatusOK, page, data)
}

// RenderError writes the error page with the given status. Used as the
// page-mode sink of the error normalizer, so it must not fail visibly.
func (r *Renderer) RenderError(w http.ResponseWriter, statusCode int, message string) {
	r.render(w, statusCode, "error", PageData{
		Title: "Something went wrong!",
		Data:  message,
	})
}

func (r *Renderer) render(w http.ResponseWriter, statusCode int, page string, data PageData) {
	tmpl, ok := r.templates[page]
	if !ok {
		r.logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "Please try again later.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		// Headers are already gone; all we can do is log
		r.logger.Error("failed to render template",
			slog.String("page", page),
			slog.Any("error", err))
	}
}
