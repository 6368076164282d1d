package categorize

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

const DefaultTickInterval = time.Minute

// Snapshot is the result of one categorize pass.
type Snapshot struct {
	Buckets    Buckets   `json:"buckets"`
	ComputedAt time.Time `json:"computed_at"`

	generation uint64
}

// Ticker re-runs Categorize on a fixed interval so that reminders migrate
// buckets as time advances. It only reads the store and never resyncs.
type Ticker struct {
	repo     domain.ReminderRepository
	interval time.Duration
	now      func() time.Time
	notifyCh chan struct{}
	latest   atomic.Pointer[Snapshot]

	// generation advances on every Notify. Snapshots built from an older
	// generation are never stored or served.
	generation atomic.Uint64
}

func NewTicker(repo domain.ReminderRepository, interval time.Duration, now func() time.Time) *Ticker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if now == nil {
		now = time.Now
	}
	return &Ticker{
		repo:     repo,
		interval: interval,
		now:      now,
		notifyCh: make(chan struct{}, 1),
	}
}

// Notify drops the current snapshot and requests an immediate refresh.
// Non-blocking if one is already pending.
func (t *Ticker) Notify() {
	t.generation.Add(1)
	t.latest.Store(nil)
	select {
	case t.notifyCh <- struct{}{}:
	default:
	}
}

// Start runs until ctx is cancelled.
func (t *Ticker) Start(ctx context.Context) {
	slog.InfoContext(ctx, "categorize ticker started",
		slog.Duration("interval", t.interval),
	)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "categorize ticker stopped")
			return
		case <-ticker.C:
			t.Refresh(ctx)
		case <-t.notifyCh:
			t.Refresh(ctx)
		}
	}
}

// Refresh recomputes the snapshot now. On load failure the previous snapshot is kept.
func (t *Ticker) Refresh(ctx context.Context) (*Snapshot, error) {
	gen := t.generation.Load()
	reminders, err := t.repo.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to load reminders for categorize",
			slog.String("error", err.Error()),
		)
		return t.latest.Load(), err
	}

	now := t.now()
	snap := &Snapshot{
		Buckets:    Categorize(reminders, now),
		ComputedAt: now,
		generation: gen,
	}
	if !t.current(snap) {
		slog.DebugContext(ctx, "discarding categorize result invalidated during load")
		return snap, nil
	}
	t.latest.Store(snap)

	slog.DebugContext(ctx, "reminders categorized",
		slog.Int("recurring", len(snap.Buckets.Recurring)),
		slog.Int("today", len(snap.Buckets.Today)),
		slog.Int("upcoming", len(snap.Buckets.Upcoming)),
		slog.Int("past", len(snap.Buckets.Past)),
	)

	return snap, nil
}

// Latest returns the last snapshot, computing one if none exists or the
// existing one is older than the tick interval.
func (t *Ticker) Latest(ctx context.Context) (*Snapshot, error) {
	snap := t.latest.Load()
	if t.current(snap) && t.now().Sub(snap.ComputedAt) < t.interval {
		return snap, nil
	}
	return t.Refresh(ctx)
}

func (t *Ticker) current(snap *Snapshot) bool {
	return snap != nil && snap.generation == t.generation.Load()
}
