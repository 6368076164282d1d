package domain

import (
	"strings"
	"time"
)

// Recurrence is the repeat rule of a reminder. The empty value means one-off.
type Recurrence string

const (
	RecurrenceNone    Recurrence = ""
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

func (r Recurrence) String() string {
	return string(r)
}

func (r Recurrence) IsRecurring() bool {
	return r != RecurrenceNone
}

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	default:
		return false
	}
}

// ScheduleKind maps the recurrence onto the trigger group bucket.
// A reminder without recurrence is scheduled once.
func (r Recurrence) ScheduleKind() ScheduleKind {
	switch r {
	case RecurrenceDaily:
		return ScheduleDaily
	case RecurrenceWeekly:
		return ScheduleWeekly
	case RecurrenceMonthly:
		return ScheduleMonthly
	default:
		return ScheduleOnce
	}
}

type Reminder struct {
	ID          string
	Message     string
	Timer       *time.Time
	IsIntrusive bool
	Recurring   Recurrence
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewReminder(id, message string, timer *time.Time, isIntrusive bool, recurring Recurrence, now time.Time) *Reminder {
	return &Reminder{
		ID:          id,
		Message:     strings.TrimSpace(message),
		Timer:       timer,
		IsIntrusive: isIntrusive,
		Recurring:   recurring,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Schedulable reports whether the reminder is ever handed to a trigger channel.
// Reminders with neither a recurrence nor a timer are display-only.
func (r *Reminder) Schedulable() bool {
	return r.Recurring.IsRecurring() || r.Timer != nil
}

// HasFutureTimer reports whether the timer is set and strictly after now.
func (r *Reminder) HasFutureTimer(now time.Time) bool {
	return r.Timer != nil && r.Timer.After(now)
}

func (r *Reminder) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return &ValidationError{Field: "message", Err: ErrEmptyMessage}
	}
	if !r.Recurring.Valid() {
		return &ValidationError{Field: "recurring", Err: ErrInvalidRecurrence}
	}
	if r.IsIntrusive && !r.Recurring.IsRecurring() && r.Timer == nil {
		return &ValidationError{Field: "timer", Err: ErrTimerRequired}
	}
	return nil
}

func (r *Reminder) Clone() Reminder {
	c := *r
	if r.Timer != nil {
		t := *r.Timer
		c.Timer = &t
	}
	return c
}
