package status

import (
	"context"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

// ChannelStatus summarizes one channel. Consolidated counts jobs carrying
// more than one reminder; informational jobs are counted apart.
type ChannelStatus struct {
	Channel       domain.ChannelName          `json:"channel"`
	Permission    domain.Permission           `json:"permission"`
	Jobs          int                         `json:"jobs"`
	ByKind        map[domain.ScheduleKind]int `json:"by_kind"`
	Single        int                         `json:"single"`
	Consolidated  int                         `json:"consolidated"`
	Informational int                         `json:"informational"`
	Reminders     int                         `json:"reminders"`
	Error         string                      `json:"error,omitempty"`
}

type Report struct {
	Channels    []ChannelStatus `json:"channels"`
	Jobs        int             `json:"jobs"`
	Reminders   int             `json:"reminders"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Reporter aggregates the jobs registered on each channel. It is read-only.
type Reporter struct {
	channels []domain.TriggerChannel
	now      func() time.Time
}

func NewReporter(channels ...domain.TriggerChannel) *Reporter {
	return &Reporter{
		channels: channels,
		now:      time.Now,
	}
}

func (r *Reporter) Report(ctx context.Context) Report {
	report := Report{
		Channels:    make([]ChannelStatus, 0, len(r.channels)),
		GeneratedAt: r.now(),
	}

	for _, ch := range r.channels {
		cs := r.channelStatus(ctx, ch)
		report.Channels = append(report.Channels, cs)
		report.Jobs += cs.Jobs
		report.Reminders += cs.Reminders
	}

	return report
}

func (r *Reporter) channelStatus(ctx context.Context, ch domain.TriggerChannel) ChannelStatus {
	cs := ChannelStatus{
		Channel:    ch.Name(),
		Permission: domain.PermissionUndetermined,
		ByKind:     make(map[domain.ScheduleKind]int, len(domain.ScheduleKinds)),
	}
	for _, kind := range domain.ScheduleKinds {
		if ch.Supports(kind) {
			cs.ByKind[kind] = 0
		}
	}

	if perm, err := ch.Permission(ctx); err != nil {
		slog.WarnContext(ctx, "failed to read channel permission",
			slog.String("channel", ch.Name().String()),
			slog.String("error", err.Error()),
		)
	} else {
		cs.Permission = perm
	}

	jobs, err := ch.ListJobs(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to list jobs for status",
			slog.String("channel", ch.Name().String()),
			slog.String("error", err.Error()),
		)
		cs.Error = err.Error()
		return cs
	}

	seen := make(map[string]struct{})
	for _, job := range jobs {
		if job.Payload.Informational {
			cs.Informational++
			continue
		}

		cs.Jobs++
		cs.ByKind[job.Schedule.Kind]++
		if job.Payload.Consolidated() {
			cs.Consolidated++
		} else {
			cs.Single++
		}
		for _, id := range job.Payload.MemberIDs {
			seen[id] = struct{}{}
		}
	}
	cs.Reminders = len(seen)

	return cs
}
