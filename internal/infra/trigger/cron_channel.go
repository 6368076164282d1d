package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

var (
	intrusiveKinds = []domain.ScheduleKind{domain.ScheduleDaily, domain.ScheduleOnce}
	regularKinds   = domain.ScheduleKinds
)

type entry struct {
	job     domain.Job
	entryID cron.EntryID
}

// CronChannel is an in-process trigger backend. Each instance is its own job
// namespace; jobs fire through the channel's notifier.
type CronChannel struct {
	name     domain.ChannelName
	kinds    []domain.ScheduleKind
	loc      *time.Location
	notifier domain.Notifier
	cron     *cron.Cron
	now      func() time.Time

	mu   sync.Mutex
	jobs map[string]*entry
}

var _ domain.TriggerChannel = (*CronChannel)(nil)

type Option func(*CronChannel)

// WithClock replaces the clock used to reject past instants and stamp jobs.
func WithClock(now func() time.Time) Option {
	return func(c *CronChannel) {
		c.now = now
	}
}

// NewIntrusiveChannel supports daily and one-time alarms only.
func NewIntrusiveChannel(loc *time.Location, notifier domain.Notifier, opts ...Option) *CronChannel {
	return newCronChannel(domain.ChannelIntrusive, intrusiveKinds, loc, notifier, opts)
}

func NewRegularChannel(loc *time.Location, notifier domain.Notifier, opts ...Option) *CronChannel {
	return newCronChannel(domain.ChannelRegular, regularKinds, loc, notifier, opts)
}

func newCronChannel(name domain.ChannelName, kinds []domain.ScheduleKind, loc *time.Location, notifier domain.Notifier, opts []Option) *CronChannel {
	if loc == nil {
		loc = time.Local
	}
	c := &CronChannel{
		name:     name,
		kinds:    kinds,
		loc:      loc,
		notifier: notifier,
		cron:     cron.New(cron.WithLocation(loc)),
		now:      time.Now,
		jobs:     make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CronChannel) Start() {
	c.cron.Start()
}

// Stop halts the scheduler and returns a context done when running jobs finish.
func (c *CronChannel) Stop() context.Context {
	return c.cron.Stop()
}

func (c *CronChannel) Name() domain.ChannelName {
	return c.name
}

func (c *CronChannel) Supports(kind domain.ScheduleKind) bool {
	return slices.Contains(c.kinds, kind)
}

func (c *CronChannel) RegisterRecurring(ctx context.Context, schedule domain.Schedule, payload domain.Payload) (string, error) {
	if !c.Supports(schedule.Kind) {
		return "", fmt.Errorf("%w: %s on %s channel", domain.ErrUnsupportedKind, schedule.Kind, c.name)
	}

	spec, err := cronSpec(schedule)
	if err != nil {
		return "", err
	}

	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	id := c.register(schedule, payload, sched, false)

	slog.DebugContext(ctx, "recurring job registered",
		slog.String("channel", c.name.String()),
		slog.String("job_id", id),
		slog.String("cron", spec),
		slog.Int("members", len(payload.MemberIDs)),
	)

	return id, nil
}

func (c *CronChannel) RegisterOnce(ctx context.Context, at time.Time, payload domain.Payload) (string, error) {
	if !c.Supports(domain.ScheduleOnce) {
		return "", fmt.Errorf("%w: once on %s channel", domain.ErrUnsupportedKind, c.name)
	}
	if !at.After(c.now()) {
		return "", ErrInstantInPast
	}

	local := at.In(c.loc)
	schedule := domain.Schedule{
		Kind:   domain.ScheduleOnce,
		Hour:   local.Hour(),
		Minute: local.Minute(),
		At:     &at,
	}

	id := c.register(schedule, payload, onceSchedule{at: at}, true)

	slog.DebugContext(ctx, "one-time job registered",
		slog.String("channel", c.name.String()),
		slog.String("job_id", id),
		slog.Time("at", at),
		slog.Int("members", len(payload.MemberIDs)),
	)

	return id, nil
}

func (c *CronChannel) register(schedule domain.Schedule, payload domain.Payload, sched cron.Schedule, once bool) string {
	id := c.name.String() + "-" + uuid.NewString()
	job := domain.Job{
		ID:        id,
		Channel:   c.name,
		Schedule:  schedule,
		Payload:   clonePayload(payload),
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entryID := c.cron.Schedule(sched, cron.FuncJob(func() {
		c.fire(id, once)
	}))
	c.jobs[id] = &entry{job: job, entryID: entryID}

	return id
}

func (c *CronChannel) fire(id string, once bool) {
	c.mu.Lock()
	e, ok := c.jobs[id]
	if ok && once {
		delete(c.jobs, id)
		c.cron.Remove(e.entryID)
	}
	c.mu.Unlock()

	if !ok {
		return
	}

	delivery := domain.Delivery{
		JobID:   id,
		Channel: c.name,
		Kind:    e.job.Schedule.Kind,
		Payload: e.job.Payload,
		FiredAt: c.now(),
	}

	if c.notifier == nil {
		slog.Warn("trigger fired without notifier",
			slog.String("channel", c.name.String()),
			slog.String("job_id", id),
		)
		return
	}

	if err := c.notifier.Notify(context.Background(), delivery); err != nil {
		slog.Error("failed to deliver trigger",
			slog.String("channel", c.name.String()),
			slog.String("job_id", id),
			slog.String("error", err.Error()),
		)
	}
}

func (c *CronChannel) ListJobs(_ context.Context) ([]domain.Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	jobs := make([]domain.Job, 0, len(c.jobs))
	for _, e := range c.jobs {
		jobs = append(jobs, e.job)
	}
	slices.SortFunc(jobs, func(a, b domain.Job) int {
		if n := a.CreatedAt.Compare(b.CreatedAt); n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})

	return jobs, nil
}

func (c *CronChannel) CancelJob(ctx context.Context, jobID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.jobs[jobID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}

	c.cron.Remove(e.entryID)
	delete(c.jobs, jobID)

	slog.DebugContext(ctx, "job cancelled",
		slog.String("channel", c.name.String()),
		slog.String("job_id", jobID),
	)

	return nil
}

func (c *CronChannel) Permission(_ context.Context) (domain.Permission, error) {
	if c.notifier == nil {
		return domain.PermissionDenied, nil
	}
	return domain.PermissionGranted, nil
}

func clonePayload(p domain.Payload) domain.Payload {
	p.MemberIDs = slices.Clone(p.MemberIDs)
	return p
}
