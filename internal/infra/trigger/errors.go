package trigger

import "errors"

var (
	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrInstantInPast   = errors.New("one-time instant is not in the future")
)
