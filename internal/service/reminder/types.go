package reminder

import (
	"time"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/service/dispatch"
)

// Input carries the user-editable fields of a reminder. Update replaces all of them.
type Input struct {
	Message     string
	Timer       *time.Time
	IsIntrusive bool
	Recurring   domain.Recurrence
}

// timer returns a copy of Timer at the millisecond precision the store keeps.
func (in Input) timer() *time.Time {
	if in.Timer == nil {
		return nil
	}
	t := in.Timer.Truncate(time.Millisecond)
	return &t
}

type Result struct {
	Reminder domain.Reminder
	Resync   dispatch.ResyncReport

	// ConfirmationJobID is empty when no confirmation was scheduled.
	ConfirmationJobID string
}

type DeleteResult struct {
	Cancel dispatch.CancelReport
	Resync dispatch.ResyncReport
}
