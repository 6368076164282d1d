package repository

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/testutil"
)

func TestReminderRepositoryLoadEmpty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.RedisClient(ctx, t)

	repo := NewReminderRepository(client, "")

	reminders, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reminders) != 0 {
		t.Errorf("expected no reminders, got %d", len(reminders))
	}
}

func TestReminderRepositorySaveLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.RedisClient(ctx, t)

	tests := []struct {
		name      string
		key       string
		reminders []domain.Reminder
	}{
		{
			name:      "default key",
			key:       "",
			reminders: sampleReminders(),
		},
		{
			name:      "custom key",
			key:       "reminders:test",
			reminders: sampleReminders()[:1],
		},
		{
			name:      "empty list",
			key:       "reminders:empty",
			reminders: []domain.Reminder{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewReminderRepository(client, tt.key)

			if err := repo.Save(ctx, tt.reminders); err != nil {
				t.Fatalf("Save: %v", err)
			}

			got, err := repo.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(got, tt.reminders) {
				t.Errorf("loaded:\n got %+v\nwant %+v", got, tt.reminders)
			}
		})
	}
}

func TestReminderRepositoryRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.RedisClient(ctx, t)

	if err := client.Set(ctx, DefaultKey, sampleJSON, 0).Err(); err != nil {
		t.Fatalf("failed to set up test data: %v", err)
	}

	repo := NewReminderRepository(client, DefaultKey)

	first, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", second, first)
	}
}

func TestReminderRepositoryLoadInvalid(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.RedisClient(ctx, t)

	if err := client.Set(ctx, "broken", `[{"id":"a","message":"A","recurring":"hourly"}]`, 0).Err(); err != nil {
		t.Fatalf("failed to set up test data: %v", err)
	}

	_, err := NewReminderRepository(client, "broken").Load(ctx)
	if !errors.Is(err, ErrInvalidReminderData) {
		t.Errorf("expected ErrInvalidReminderData, got %v", err)
	}
}
