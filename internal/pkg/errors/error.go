// internal/pkg/errors/error.go
package xerrors

import (
	"errors"
	"fmt"
)

// Sentinels the HTTP layer maps to status codes (see response.StatusFor).
var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("conflict with current state")
	ErrInternal       = errors.New("internal server error")
	ErrRateLimited    = errors.New("too many requests")
	ErrBadRequest     = errors.New("bad request")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrCaptchaFailed  = errors.New("anti-bot verification failed")
)

// Wrap adds context to an error. It returns nil for a nil err.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Classify tags a domain error with one of the sentinels above while keeping
// it matchable: errors.Is works for both kind and err.
func Classify(kind, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kind, err)
}
