package trigger

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

// cronSpec converts a recurring schedule to a standard five-field cron expression.
func cronSpec(s domain.Schedule) (string, error) {
	if s.Hour < 0 || s.Hour > 23 || s.Minute < 0 || s.Minute > 59 {
		return "", fmt.Errorf("%w: time %d:%d out of range", ErrInvalidSchedule, s.Hour, s.Minute)
	}

	switch s.Kind {
	case domain.ScheduleDaily:
		return fmt.Sprintf("%d %d * * *", s.Minute, s.Hour), nil
	case domain.ScheduleWeekly:
		if s.Weekday == nil || *s.Weekday < time.Sunday || *s.Weekday > time.Saturday {
			return "", fmt.Errorf("%w: weekly schedule needs a weekday", ErrInvalidSchedule)
		}
		return fmt.Sprintf("%d %d * * %d", s.Minute, s.Hour, int(*s.Weekday)), nil
	case domain.ScheduleMonthly:
		if s.DayOfMonth == nil || *s.DayOfMonth < 1 || *s.DayOfMonth > 31 {
			return "", fmt.Errorf("%w: monthly schedule needs a day of month", ErrInvalidSchedule)
		}
		return fmt.Sprintf("%d %d %d * *", s.Minute, s.Hour, *s.DayOfMonth), nil
	default:
		return "", fmt.Errorf("%w: %q is not a recurring kind", ErrInvalidSchedule, s.Kind)
	}
}

// onceSchedule fires at a single instant and never again.
type onceSchedule struct {
	at time.Time
}

var _ cron.Schedule = onceSchedule{}

func (s onceSchedule) Next(t time.Time) time.Time {
	if t.Before(s.at) {
		return s.at
	}
	return time.Time{}
}
