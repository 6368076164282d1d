package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/observability/tracing"
)

type reminderRepository struct {
	client *redis.Client
	key    string
}

// NewReminderRepository stores the whole reminder list as one JSON value under key.
func NewReminderRepository(client *redis.Client, key string) domain.ReminderRepository {
	if key == "" {
		key = DefaultKey
	}
	return &reminderRepository{
		client: client,
		key:    key,
	}
}

func (r *reminderRepository) Load(ctx context.Context) ([]domain.Reminder, error) {
	ctx, span := tracing.StartStoreSpan(ctx, "load", r.key)
	defer span.End()

	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.Reminder{}, nil
		}
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%w: %v", ErrRedisConnection, err)
	}

	reminders, err := decodeReminders(data)
	if err != nil {
		slog.ErrorContext(ctx, "stored reminders failed validation",
			slog.String("key", r.key),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		return nil, err
	}

	return reminders, nil
}

func (r *reminderRepository) Save(ctx context.Context, reminders []domain.Reminder) error {
	ctx, span := tracing.StartStoreSpan(ctx, "save", r.key)
	defer span.End()

	data, err := encodeReminders(reminders, false)
	if err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("%w: %v", ErrInvalidReminderData, err)
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("%w: %v", ErrRedisConnection, err)
	}

	return nil
}
