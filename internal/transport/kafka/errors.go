package kafka

import "fleet-platform/internal/realtime"

// PermanentError is a publish failure that retrying cannot fix.
type PermanentError struct {
	Err error
}

func (e PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

func (e PermanentError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, realtime.ErrPermanent) hold.
func (e PermanentError) Is(target error) bool { return target == realtime.ErrPermanent }

// Permanent returns a permanent error.
func Permanent(err error) error {
	return PermanentError{Err: err}
}
