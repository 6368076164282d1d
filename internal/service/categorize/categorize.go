package categorize

import (
	"slices"
	"time"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

// Buckets holds reminders split by display category.
type Buckets struct {
	Recurring []domain.Reminder `json:"recurring"`
	Today     []domain.Reminder `json:"today"`
	Upcoming  []domain.Reminder `json:"upcoming"`
	Past      []domain.Reminder `json:"past"`
}

func (b Buckets) Total() int {
	return len(b.Recurring) + len(b.Today) + len(b.Upcoming) + len(b.Past)
}

type bucket int

const (
	bucketRecurring bucket = iota
	bucketToday
	bucketUpcoming
	bucketPast
)

// Categorize classifies reminders relative to now. Calendar days are compared
// in now's location. The input slice is not modified.
func Categorize(reminders []domain.Reminder, now time.Time) Buckets {
	b := Buckets{
		Recurring: make([]domain.Reminder, 0),
		Today:     make([]domain.Reminder, 0),
		Upcoming:  make([]domain.Reminder, 0),
		Past:      make([]domain.Reminder, 0),
	}

	for _, r := range reminders {
		switch classify(r, now) {
		case bucketRecurring:
			b.Recurring = append(b.Recurring, r)
		case bucketToday:
			b.Today = append(b.Today, r)
		case bucketUpcoming:
			b.Upcoming = append(b.Upcoming, r)
		default:
			b.Past = append(b.Past, r)
		}
	}

	slices.SortStableFunc(b.Today, compareTimerAsc)
	slices.SortStableFunc(b.Upcoming, compareTimerAsc)
	slices.SortStableFunc(b.Recurring, compareTimerAsc)
	slices.SortStableFunc(b.Past, compareTimerDesc)

	return b
}

func classify(r domain.Reminder, now time.Time) bucket {
	if r.Recurring.IsRecurring() {
		return bucketRecurring
	}
	if r.Timer == nil {
		return bucketToday
	}

	timer := r.Timer.In(now.Location())
	timerDay := startOfDay(timer)
	today := startOfDay(now)

	switch {
	case timerDay.Before(today):
		return bucketPast
	case timerDay.Equal(today) && timer.Before(now):
		return bucketPast
	case timerDay.Equal(today):
		return bucketToday
	case timerDay.After(today):
		return bucketUpcoming
	default:
		return bucketPast
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// compareTimerAsc orders by timer ascending with undated reminders last.
func compareTimerAsc(a, b domain.Reminder) int {
	switch {
	case a.Timer == nil && b.Timer == nil:
		return 0
	case a.Timer == nil:
		return 1
	case b.Timer == nil:
		return -1
	}
	return a.Timer.Compare(*b.Timer)
}

func compareTimerDesc(a, b domain.Reminder) int {
	switch {
	case a.Timer == nil && b.Timer == nil:
		return 0
	case a.Timer == nil:
		return 1
	case b.Timer == nil:
		return -1
	}
	return b.Timer.Compare(*a.Timer)
}
