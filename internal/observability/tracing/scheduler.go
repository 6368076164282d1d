package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const schedulerTracerName = "github.com/KasumiMercury/primind-reminder-scheduler/internal/service/dispatch"

func SchedulerTracer() trace.Tracer {
	return otel.Tracer(schedulerTracerName)
}

func StartResyncSpan(ctx context.Context, channel string, reminderCount int) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "scheduler.resync",
		trace.WithAttributes(
			attribute.String("channel", channel),
			attribute.Int("reminder.count", reminderCount),
		),
	)
}

func StartCancelSpan(ctx context.Context, reminderID string) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "scheduler.cancel_reminder",
		trace.WithAttributes(
			attribute.String("reminder_id", reminderID),
		),
	)
}

func StartMutationSpan(ctx context.Context, operation, reminderID string) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "reminder."+operation,
		trace.WithAttributes(
			attribute.String("reminder_id", reminderID),
		),
	)
}

func StartStoreSpan(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "reminder.store."+operation,
		trace.WithAttributes(
			attribute.String("db.operation", operation),
			attribute.String("db.key", key),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordResyncResult(span trace.Span, admitted, groups, registered, registerFailed, cancelled, cancelFailed int) {
	span.SetAttributes(
		attribute.Int("resync.admitted", admitted),
		attribute.Int("resync.groups", groups),
		attribute.Int("resync.registered", registered),
		attribute.Int("resync.register_failed", registerFailed),
		attribute.Int("resync.cancelled", cancelled),
		attribute.Int("resync.cancel_failed", cancelFailed),
	)
	if registerFailed > 0 || cancelFailed > 0 {
		span.SetStatus(codes.Error, "partial resync")
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

func RecordError(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
