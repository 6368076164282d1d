package domain

import "errors"

var (
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrJobNotFound       = errors.New("trigger job not found")
	ErrEmptyMessage      = errors.New("message must not be empty")
	ErrInvalidRecurrence = errors.New("recurring must be one of daily, weekly, monthly or empty")
	ErrTimerRequired     = errors.New("timer is required for a one-off alarm")
	ErrUnsupportedKind   = errors.New("schedule kind not supported by channel")
)

// ValidationError reports a reminder rejected before persistence.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
