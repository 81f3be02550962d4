package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrUnauthenticated means no user could be resolved for the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrNotFound covers both missing rows and rows owned by someone else.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned before any persistence call is made.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIllegalMove is a reparent that would put a goal under itself.
	ErrIllegalMove = errors.New("illegal tree move")
	// ErrConflict is a uniqueness violation in the store.
	ErrConflict = errors.New("conflict")
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Invalid tags msg as a validation failure.
func Invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, strings.TrimSpace(msg))
}

// NotFound tags what as missing under the caller's ownership scope.
func NotFound(what string) error {
	return fmt.Errorf("%s: %w", strings.TrimSpace(what), ErrNotFound)
}

// FromDB maps store failures onto the taxonomy. Errors it does not
// recognise are returned unchanged.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return fmt.Errorf("%w: %v", ErrConflict, err)
		case "23503":
			return fmt.Errorf("%w: referenced row missing: %v", ErrNotFound, err)
		}
	}
	if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// Classify returns the HTTP status and machine code for err.
func Classify(err error) (int, string) {
	var apiErr *Error
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.As(err, &apiErr) && apiErr.Status != 0:
		return apiErr.Status, apiErr.Code
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, ErrIllegalMove):
		return http.StatusUnprocessableEntity, "illegal_move"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "canceled"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
