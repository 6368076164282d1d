package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	schedulerMeterName = "reminder.scheduler"
)

type SchedulerMetrics struct {
	resyncDuration metric.Float64Histogram
	jobsRegistered metric.Int64Counter
	jobsCancelled  metric.Int64Counter
	groupSize      metric.Int64Histogram
	mutations      metric.Int64Counter
	confirmations  metric.Int64Counter
}

func NewSchedulerMetrics() (*SchedulerMetrics, error) {
	meter := otel.Meter(schedulerMeterName)

	resyncDuration, err := meter.Float64Histogram(
		"reminder_resync_duration_seconds",
		metric.WithDescription("Time spent resyncing one trigger channel"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
		),
	)
	if err != nil {
		return nil, err
	}

	jobsRegistered, err := meter.Int64Counter(
		"reminder_jobs_registered_total",
		metric.WithDescription("Trigger job registration attempts"),
		metric.WithUnit("{job}"),
	)
	if err != nil {
		return nil, err
	}

	jobsCancelled, err := meter.Int64Counter(
		"reminder_jobs_cancelled_total",
		metric.WithDescription("Trigger job cancellation attempts"),
		metric.WithUnit("{job}"),
	)
	if err != nil {
		return nil, err
	}

	groupSize, err := meter.Int64Histogram(
		"reminder_trigger_group_size",
		metric.WithDescription("Number of reminders consolidated into one trigger job"),
		metric.WithUnit("{reminder}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 10, 20),
	)
	if err != nil {
		return nil, err
	}

	mutations, err := meter.Int64Counter(
		"reminder_mutations_total",
		metric.WithDescription("Reminder create, update and delete operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	confirmations, err := meter.Int64Counter(
		"reminder_confirmations_total",
		metric.WithDescription("Confirmation notifications scheduled for new recurring reminders"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerMetrics{
		resyncDuration: resyncDuration,
		jobsRegistered: jobsRegistered,
		jobsCancelled:  jobsCancelled,
		groupSize:      groupSize,
		mutations:      mutations,
		confirmations:  confirmations,
	}, nil
}

func (m *SchedulerMetrics) RecordResyncDuration(ctx context.Context, channel string, duration time.Duration) {
	m.resyncDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("channel", channel),
	))
}

func (m *SchedulerMetrics) RecordJobRegistered(ctx context.Context, channel, kind, outcome string) {
	m.jobsRegistered.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
}

func (m *SchedulerMetrics) RecordJobCancelled(ctx context.Context, channel, reason, outcome string) {
	m.jobsCancelled.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("reason", reason),
		attribute.String("outcome", outcome),
	))
}

func (m *SchedulerMetrics) RecordGroupSize(ctx context.Context, channel, kind string, size int) {
	m.groupSize.Record(ctx, int64(size), metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("kind", kind),
	))
}

func (m *SchedulerMetrics) RecordMutation(ctx context.Context, operation, outcome string) {
	m.mutations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func (m *SchedulerMetrics) RecordConfirmation(ctx context.Context, outcome string) {
	m.confirmations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}
