package alarm

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

var (
	ErrNoActiveAlarm = errors.New("no active alarm")
	ErrAlarmMismatch = errors.New("active alarm does not match job")
)

// Active describes the alarm that is currently ringing.
type Active struct {
	JobID     string         `json:"job_id"`
	Payload   domain.Payload `json:"payload"`
	StartedAt time.Time      `json:"started_at"`
}

// Tracker holds the currently ringing intrusive alarm. It is owned by the
// process and passed to whatever needs to query or stop the alarm.
type Tracker struct {
	mu      sync.Mutex
	current *Active
	next    domain.Notifier
}

// NewTracker forwards deliveries to next after recording them. next may be nil.
func NewTracker(next domain.Notifier) *Tracker {
	return &Tracker{next: next}
}

// Notify starts the alarm for an intrusive delivery. A newer alarm replaces
// the one ringing.
func (t *Tracker) Notify(ctx context.Context, d domain.Delivery) error {
	if d.Channel.IsIntrusive() && !d.Payload.Informational {
		t.mu.Lock()
		if t.current != nil {
			slog.InfoContext(ctx, "alarm replaced",
				slog.String("previous_job_id", t.current.JobID),
				slog.String("job_id", d.JobID),
			)
		}
		t.current = &Active{
			JobID:     d.JobID,
			Payload:   d.Payload,
			StartedAt: d.FiredAt,
		}
		t.mu.Unlock()
	}

	if t.next == nil {
		return nil
	}
	return t.next.Notify(ctx, d)
}

// Current returns a copy of the ringing alarm.
func (t *Tracker) Current() (Active, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return Active{}, false
	}
	return *t.current, true
}

// Stop silences the ringing alarm. An empty jobID stops whichever is ringing.
func (t *Tracker) Stop(ctx context.Context, jobID string) (Active, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return Active{}, ErrNoActiveAlarm
	}
	if jobID != "" && t.current.JobID != jobID {
		return Active{}, ErrAlarmMismatch
	}

	stopped := *t.current
	t.current = nil

	slog.InfoContext(ctx, "alarm stopped",
		slog.String("job_id", stopped.JobID),
	)

	return stopped, nil
}
