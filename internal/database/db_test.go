package database

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nshrestha/trailbook/internal/models"
)

func TestMapPostgresError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes through", nil, nil},
		{"no rows", pgx.ErrNoRows, models.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, models.ErrConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, models.ErrBadRequest},
		{"not null violation", &pgconn.PgError{Code: "23502"}, models.ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapPostgresError(tt.in)
			if !errors.Is(got, tt.want) {
				t.Errorf("MapPostgresError(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMapPostgresError_InvalidTextRepresentation(t *testing.T) {
	// A malformed uuid in a query parameter surfaces as 22P02. That is a
	// client mistake, not a server fault, so it must come out operational.
	got := MapPostgresError(&pgconn.PgError{Code: "22P02"})

	if !models.IsOperational(got) {
		t.Fatalf("MapPostgresError(22P02) = %v, want operational", got)
	}
	if code := models.StatusCode(got); code != http.StatusBadRequest {
		t.Errorf("StatusCode() = %d, want %d", code, http.StatusBadRequest)
	}
	if got.Error() != "Invalid identifier" {
		t.Errorf("message = %q, want %q", got.Error(), "Invalid identifier")
	}
}

func TestMapPostgresError_UnknownErrorPassesThrough(t *testing.T) {
	cause := errors.New("connection refused")
	if got := MapPostgresError(cause); !errors.Is(got, cause) {
		t.Errorf("MapPostgresError(%v) = %v, want the original error", cause, got)
	}
}
