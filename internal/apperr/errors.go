package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrUnauthorized is returned when the request carries no valid session.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden is returned when the session role may not perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrUnavailable indicates that a resource exists but cannot be used right now (truck already assigned).
var ErrUnavailable = errors.New("unavailable")

// ErrProvider wraps failures of an external payment or verification provider.
var ErrProvider = errors.New("payment provider error")

type reasonError struct {
	kind   error
	reason string
}

func (e *reasonError) Error() string { return e.reason }

func (e *reasonError) Unwrap() error { return e.kind }

// WithReason attaches a user-facing reason to one of the sentinel errors.
// errors.Is still matches the sentinel.
func WithReason(kind error, reason string) error {
	return &reasonError{kind: kind, reason: reason}
}

// Reason returns the user-facing reason carried by err, or fallback.
func Reason(err error, fallback string) string {
	var re *reasonError
	if errors.As(err, &re) && re.reason != "" {
		return re.reason
	}
	return fallback
}
