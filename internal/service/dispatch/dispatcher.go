package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/observability/metrics"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/observability/tracing"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/service/grouping"
)

// Dispatcher routes reminders to the intrusive or regular trigger channel and
// keeps each channel's jobs consistent with the reminder list.
type Dispatcher struct {
	intrusive domain.TriggerChannel
	regular   domain.TriggerChannel
	engine    *grouping.Engine
	metrics   *metrics.SchedulerMetrics
	recorder  domain.ResyncRecorder
	now       func() time.Time
}

type Option func(*Dispatcher)

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

func NewDispatcher(
	intrusive domain.TriggerChannel,
	regular domain.TriggerChannel,
	engine *grouping.Engine,
	schedulerMetrics *metrics.SchedulerMetrics,
	recorder domain.ResyncRecorder,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		intrusive: intrusive,
		regular:   regular,
		engine:    engine,
		metrics:   schedulerMetrics,
		recorder:  recorder,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Intrusive() domain.TriggerChannel {
	return d.intrusive
}

func (d *Dispatcher) Regular() domain.TriggerChannel {
	return d.regular
}

func (d *Dispatcher) channels() []domain.TriggerChannel {
	return []domain.TriggerChannel{d.intrusive, d.regular}
}

// Admits reports whether channel owns r at now. A reminder is owned by the
// channel matching its intrusive flag, if that channel supports its recurrence.
// Weekly and monthly intrusive reminders are therefore not scheduled at all.
func Admits(channel domain.TriggerChannel, r domain.Reminder, now time.Time) bool {
	if r.IsIntrusive != channel.Name().IsIntrusive() {
		return false
	}

	kind := r.Recurring.ScheduleKind()
	if !channel.Supports(kind) {
		return false
	}
	if kind.IsRecurring() {
		return true
	}
	return r.HasFutureTimer(now)
}

// Admitted filters reminders down to the ones channel owns.
func Admitted(channel domain.TriggerChannel, reminders []domain.Reminder, now time.Time) []domain.Reminder {
	out := make([]domain.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if Admits(channel, r, now) {
			out = append(out, r)
		}
	}
	return out
}

// ResyncAll resyncs both channels against the full reminder list. Both are
// always resynced together; failures degrade a channel but never stop the pass.
func (d *Dispatcher) ResyncAll(ctx context.Context, reminders []domain.Reminder) ResyncReport {
	now := d.now()

	report := ResyncReport{Results: make([]ResyncResult, 0, 2)}
	for _, ch := range d.channels() {
		report.Results = append(report.Results, d.resync(ctx, ch, reminders, now))
	}

	if d.recorder != nil {
		records := make([]domain.ResyncRecord, 0, len(report.Results))
		for _, res := range report.Results {
			records = append(records, res.record())
		}
		if err := d.recorder.RecordResync(ctx, records); err != nil {
			slog.WarnContext(ctx, "failed to record resync results",
				slog.String("error", err.Error()),
			)
		}
	}

	return report
}

func (d *Dispatcher) resync(ctx context.Context, ch domain.TriggerChannel, reminders []domain.Reminder, now time.Time) ResyncResult {
	started := time.Now()
	name := ch.Name().String()

	ctx, span := tracing.StartResyncSpan(ctx, name, len(reminders))
	defer span.End()

	result := ResyncResult{
		Channel:   ch.Name(),
		StartedAt: now,
		JobIDs:    make([]string, 0),
	}

	jobs, err := ch.ListJobs(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to list jobs, continuing with registration",
			slog.String("channel", name),
			slog.String("error", err.Error()),
		)
		result.ListFailed = true
	}

	for _, job := range jobs {
		if err := ch.CancelJob(ctx, job.ID); err != nil {
			slog.WarnContext(ctx, "failed to cancel job",
				slog.String("channel", name),
				slog.String("job_id", job.ID),
				slog.String("error", err.Error()),
			)
			result.CancelFailed++
			if d.metrics != nil {
				d.metrics.RecordJobCancelled(ctx, name, "resync", "failed")
			}
			continue
		}
		result.Cancelled++
		if d.metrics != nil {
			d.metrics.RecordJobCancelled(ctx, name, "resync", "success")
		}
	}

	admitted := Admitted(ch, reminders, now)
	result.Admitted = len(admitted)

	groups := d.engine.Group(admitted, now).TriggerGroups()
	result.Groups = len(groups)

	for _, g := range groups {
		if g.Consolidated() {
			result.Consolidated++
		}

		jobID, err := d.register(ctx, ch, g)
		if err != nil {
			slog.ErrorContext(ctx, "failed to register trigger group",
				slog.String("channel", name),
				slog.String("kind", g.Kind.String()),
				slog.String("slot_key", g.SlotKey),
				slog.Int("members", len(g.Members)),
				slog.String("error", err.Error()),
			)
			result.RegisterFailed++
			if d.metrics != nil {
				d.metrics.RecordJobRegistered(ctx, name, g.Kind.String(), "failed")
			}
			continue
		}

		result.Registered++
		result.JobIDs = append(result.JobIDs, jobID)
		if d.metrics != nil {
			d.metrics.RecordJobRegistered(ctx, name, g.Kind.String(), "success")
			d.metrics.RecordGroupSize(ctx, name, g.Kind.String(), len(g.Members))
		}
	}

	result.Duration = time.Since(started)
	if d.metrics != nil {
		d.metrics.RecordResyncDuration(ctx, name, result.Duration)
	}
	tracing.RecordResyncResult(span, result.Admitted, result.Groups, result.Registered, result.RegisterFailed, result.Cancelled, result.CancelFailed)

	slog.InfoContext(ctx, "channel resynced",
		slog.String("channel", name),
		slog.Int("admitted", result.Admitted),
		slog.Int("groups", result.Groups),
		slog.Int("consolidated", result.Consolidated),
		slog.Int("registered", result.Registered),
		slog.Int("register_failed", result.RegisterFailed),
		slog.Int("cancelled", result.Cancelled),
		slog.Int("cancel_failed", result.CancelFailed),
		slog.Bool("list_failed", result.ListFailed),
		slog.Duration("duration", result.Duration),
	)

	return result
}

func (d *Dispatcher) register(ctx context.Context, ch domain.TriggerChannel, g domain.TriggerGroup) (string, error) {
	payload := grouping.BuildPayload(g, ch.Name())

	if g.Kind == domain.ScheduleOnce {
		return ch.RegisterOnce(ctx, *g.Schedule.At, payload)
	}
	return ch.RegisterRecurring(ctx, g.Schedule, payload)
}

// CancelReminder cancels every job on either channel whose members include
// reminderID. Surviving members of a consolidated job stay unscheduled until
// the next ResyncAll.
func (d *Dispatcher) CancelReminder(ctx context.Context, reminderID string) CancelReport {
	ctx, span := tracing.StartCancelSpan(ctx, reminderID)
	defer span.End()

	report := CancelReport{
		ReminderID: reminderID,
		Cancelled:  make([]string, 0),
	}

	for _, ch := range d.channels() {
		name := ch.Name().String()

		jobs, err := ch.ListJobs(ctx)
		if err != nil {
			slog.WarnContext(ctx, "failed to list jobs for targeted cancel",
				slog.String("channel", name),
				slog.String("reminder_id", reminderID),
				slog.String("error", err.Error()),
			)
			report.Failed++
			continue
		}

		for _, job := range jobs {
			if job.Payload.Informational || !job.Payload.HasMember(reminderID) {
				continue
			}

			if err := ch.CancelJob(ctx, job.ID); err != nil {
				slog.WarnContext(ctx, "failed to cancel job for reminder",
					slog.String("channel", name),
					slog.String("job_id", job.ID),
					slog.String("reminder_id", reminderID),
					slog.String("error", err.Error()),
				)
				report.Failed++
				if d.metrics != nil {
					d.metrics.RecordJobCancelled(ctx, name, "targeted", "failed")
				}
				continue
			}

			report.Cancelled = append(report.Cancelled, job.ID)
			if d.metrics != nil {
				d.metrics.RecordJobCancelled(ctx, name, "targeted", "success")
			}
			if job.Payload.Consolidated() {
				slog.DebugContext(ctx, "consolidated job cancelled, remaining members wait for resync",
					slog.String("channel", name),
					slog.String("job_id", job.ID),
					slog.Int("members", len(job.Payload.MemberIDs)),
				)
			}
		}
	}

	return report
}
