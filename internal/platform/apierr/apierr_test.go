package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthenticated", fmt.Errorf("load goals: %w", ErrUnauthenticated), http.StatusUnauthorized, "unauthenticated"},
		{"not found", NotFound("goal"), http.StatusNotFound, "not_found"},
		{"invalid", Invalid("title is required"), http.StatusBadRequest, "invalid_argument"},
		{"illegal move", fmt.Errorf("move: %w", ErrIllegalMove), http.StatusUnprocessableEntity, "illegal_move"},
		{"coded", New(http.StatusTeapot, "teapot", errors.New("short and stout")), http.StatusTeapot, "teapot"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := Classify(tc.err)
			if status != tc.status || code != tc.code {
				t.Fatalf("want=%d/%s got=%d/%s", tc.status, tc.code, status, code)
			}
		})
	}
}

func TestFromDBMapsStoreErrors(t *testing.T) {
	if err := FromDB(gorm.ErrRecordNotFound); !errors.Is(err, ErrNotFound) {
		t.Fatalf("record not found should map to ErrNotFound, got %v", err)
	}
	if err := FromDB(&pgconn.PgError{Code: "23505"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("23505 should map to ErrConflict, got %v", err)
	}
	if err := FromDB(&pgconn.PgError{Code: "23503"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("23503 should map to ErrNotFound, got %v", err)
	}
	if err := FromDB(errors.New("UNIQUE constraint failed: weekly_reviews.user_id")); !errors.Is(err, ErrConflict) {
		t.Fatalf("sqlite unique failure should map to ErrConflict, got %v", err)
	}
	plain := errors.New("connection reset")
	if err := FromDB(plain); err != plain {
		t.Fatalf("unknown errors should pass through, got %v", err)
	}
	if FromDB(nil) != nil {
		t.Fatalf("nil should stay nil")
	}
}
