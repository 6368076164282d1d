package domain

import "context"

//go:generate mockgen -source=reminder_repository.go -destination=reminder_repository_mock.go -package=domain

// ReminderRepository owns the canonical reminder list. The list is loaded and
// saved as a whole.
type ReminderRepository interface {
	Load(ctx context.Context) ([]Reminder, error)
	Save(ctx context.Context, reminders []Reminder) error
}
