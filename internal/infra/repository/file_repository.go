package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/observability/tracing"
)

type fileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository keeps the reminder array in a JSON file at path.
func NewFileRepository(path string) domain.ReminderRepository {
	return &fileRepository{path: path}
}

func (r *fileRepository) Load(ctx context.Context) ([]domain.Reminder, error) {
	_, span := tracing.StartStoreSpan(ctx, "load", r.path)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Reminder{}, nil
		}
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	reminders, err := decodeReminders(data)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return reminders, nil
}

// Save writes to a temporary file and renames it over the target.
func (r *fileRepository) Save(ctx context.Context, reminders []domain.Reminder) error {
	_, span := tracing.StartStoreSpan(ctx, "save", r.path)
	defer span.End()

	data, err := encodeReminders(reminders, true)
	if err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("%w: %v", ErrInvalidReminderData, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			tracing.RecordError(span, err)
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}

	return nil
}
