package contentapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound is returned when a requested post or message does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSlug is returned when a derived slug collides with an
	// existing post. Uniqueness is enforced by the posts.slug UNIQUE
	// constraint, never by a check-then-insert.
	ErrDuplicateSlug = errors.New("a post with this slug already exists")
)

// ValidationError reports missing or malformed request input. Its message is
// safe to surface to the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// notFoundError carries a resource-specific message while still matching
// ErrNotFound under errors.Is.
type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(msg string) error { return &notFoundError{msg: msg} }

// WriteError reports an asset store I/O failure. An operation that hits a
// WriteError must not leave a record referencing the failed filename.
type WriteError struct {
	Op       string
	Filename string
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("asset %s %s: %v", e.Op, e.Filename, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// isUniqueViolation detects a UNIQUE constraint failure from modernc sqlite,
// which surfaces constraint errors as plain strings.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// httpStatus maps core errors onto response codes.
func httpStatus(err error) int {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateSlug):
		return http.StatusConflict
	case errors.As(err, &ve):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the error text callers may see. Internal failures
// collapse to a generic message so driver and filesystem details stay out of
// responses.
func publicMessage(err error) string {
	if httpStatus(err) == http.StatusInternalServerError {
		return "Server Error"
	}
	return err.Error()
}
