package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

// DefaultKey is the key under which the reminder array is stored.
const DefaultKey = "items"

// isoLayout matches JavaScript's Date.prototype.toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// reminderRecord is the persisted shape. Absent timer and recurring are
// written as null.
type reminderRecord struct {
	ID          string  `json:"id"`
	Message     string  `json:"message"`
	Timer       *string `json:"timer"`
	IsIntrusive bool    `json:"isIntrusive"`
	Recurring   *string `json:"recurring"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoLayout)
}

func parseTime(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrInvalidReminderData, field, err)
	}
	return t.UTC(), nil
}

func toRecord(r domain.Reminder) reminderRecord {
	rec := reminderRecord{
		ID:          r.ID,
		Message:     r.Message,
		IsIntrusive: r.IsIntrusive,
		CreatedAt:   formatTime(r.CreatedAt),
		UpdatedAt:   formatTime(r.UpdatedAt),
	}
	if r.Timer != nil {
		s := r.Timer.UTC().Format(isoLayout)
		rec.Timer = &s
	}
	if r.Recurring.IsRecurring() {
		s := r.Recurring.String()
		rec.Recurring = &s
	}
	return rec
}

func fromRecord(rec reminderRecord) (domain.Reminder, error) {
	r := domain.Reminder{
		ID:          rec.ID,
		Message:     rec.Message,
		IsIntrusive: rec.IsIntrusive,
	}

	if rec.ID == "" {
		return domain.Reminder{}, fmt.Errorf("%w: missing id", ErrInvalidReminderData)
	}

	if rec.Timer != nil {
		t, err := parseTime("timer", *rec.Timer)
		if err != nil {
			return domain.Reminder{}, err
		}
		r.Timer = &t
	}

	if rec.Recurring != nil {
		r.Recurring = domain.Recurrence(*rec.Recurring)
	}

	var err error
	if r.CreatedAt, err = parseTime("createdAt", rec.CreatedAt); err != nil {
		return domain.Reminder{}, err
	}
	if r.UpdatedAt, err = parseTime("updatedAt", rec.UpdatedAt); err != nil {
		return domain.Reminder{}, err
	}

	if err := r.Validate(); err != nil {
		return domain.Reminder{}, fmt.Errorf("%w: %s: %v", ErrInvalidReminderData, rec.ID, err)
	}

	return r, nil
}

// encodeReminders renders reminders as the persisted JSON array.
func encodeReminders(reminders []domain.Reminder, indent bool) ([]byte, error) {
	records := make([]reminderRecord, 0, len(reminders))
	for _, r := range reminders {
		records = append(records, toRecord(r))
	}

	if indent {
		return json.MarshalIndent(records, "", "  ")
	}
	return json.Marshal(records)
}

// decodeReminders parses the persisted JSON array. A single invalid record
// fails the whole load so that a later save cannot silently drop it.
func decodeReminders(data []byte) ([]domain.Reminder, error) {
	if len(data) == 0 {
		return []domain.Reminder{}, nil
	}

	var records []reminderRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReminderData, err)
	}

	reminders := make([]domain.Reminder, 0, len(records))
	for i, rec := range records {
		r, err := fromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		reminders = append(reminders, r)
	}

	return reminders, nil
}
