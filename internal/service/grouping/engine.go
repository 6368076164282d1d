package grouping

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

const (
	DefaultHour       = 9
	DefaultMinute     = 0
	DefaultDayOfMonth = 1
)

// Groups maps slot keys to their members per recurrence bucket.
type Groups struct {
	Daily   map[string][]domain.Reminder
	Weekly  map[string][]domain.Reminder
	Monthly map[string][]domain.Reminder
	OneTime map[string][]domain.Reminder

	schedules map[domain.ScheduleKind]map[string]domain.Schedule
}

func newGroups() Groups {
	g := Groups{
		Daily:   make(map[string][]domain.Reminder),
		Weekly:  make(map[string][]domain.Reminder),
		Monthly: make(map[string][]domain.Reminder),
		OneTime: make(map[string][]domain.Reminder),
	}
	g.schedules = make(map[domain.ScheduleKind]map[string]domain.Schedule, len(domain.ScheduleKinds))
	for _, kind := range domain.ScheduleKinds {
		g.schedules[kind] = make(map[string]domain.Schedule)
	}
	return g
}

func (g Groups) bucket(kind domain.ScheduleKind) map[string][]domain.Reminder {
	switch kind {
	case domain.ScheduleDaily:
		return g.Daily
	case domain.ScheduleWeekly:
		return g.Weekly
	case domain.ScheduleMonthly:
		return g.Monthly
	default:
		return g.OneTime
	}
}

// Len returns the number of groups across all buckets.
func (g Groups) Len() int {
	return len(g.Daily) + len(g.Weekly) + len(g.Monthly) + len(g.OneTime)
}

// TriggerGroups flattens the buckets in kind order, then by slot key.
func (g Groups) TriggerGroups() []domain.TriggerGroup {
	out := make([]domain.TriggerGroup, 0, g.Len())
	for _, kind := range domain.ScheduleKinds {
		bucket := g.bucket(kind)
		keys := make([]string, 0, len(bucket))
		for k := range bucket {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		for _, k := range keys {
			out = append(out, domain.TriggerGroup{
				Kind:     kind,
				SlotKey:  k,
				Schedule: g.schedules[kind][k],
				Members:  bucket[k],
			})
		}
	}
	return out
}

// Engine groups schedulable reminders into trigger groups. Time-of-day is read
// in the engine's location.
type Engine struct {
	loc *time.Location
}

func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{loc: loc}
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

// Group buckets reminders by recurrence and slot key. Input order is kept
// within a group. One-off reminders at or before now are dropped.
func (e *Engine) Group(reminders []domain.Reminder, now time.Time) Groups {
	groups := newGroups()

	for _, r := range reminders {
		kind := r.Recurring.ScheduleKind()

		schedule, ok := e.ScheduleFor(r, now)
		if !ok {
			continue
		}

		key := SlotKey(schedule)
		bucket := groups.bucket(kind)
		bucket[key] = append(bucket[key], r)
		if _, exists := groups.schedules[kind][key]; !exists {
			groups.schedules[kind][key] = schedule
		}
	}

	return groups
}

// ScheduleFor derives the recurrence descriptor of one reminder. It reports
// false for one-off reminders that have no timer or have already expired.
func (e *Engine) ScheduleFor(r domain.Reminder, now time.Time) (domain.Schedule, bool) {
	kind := r.Recurring.ScheduleKind()

	var local time.Time
	if r.Timer != nil {
		local = r.Timer.In(e.loc)
	}

	switch kind {
	case domain.ScheduleDaily:
		if r.Timer == nil {
			return domain.Schedule{Kind: kind, Hour: DefaultHour, Minute: DefaultMinute}, true
		}
		return domain.Schedule{Kind: kind, Hour: local.Hour(), Minute: local.Minute()}, true

	case domain.ScheduleWeekly:
		if r.Timer == nil {
			local = nextSunday(now.In(e.loc))
		}
		wd := local.Weekday()
		return domain.Schedule{Kind: kind, Hour: local.Hour(), Minute: local.Minute(), Weekday: &wd}, true

	case domain.ScheduleMonthly:
		day := DefaultDayOfMonth
		hour, minute := DefaultHour, DefaultMinute
		if r.Timer != nil {
			day, hour, minute = local.Day(), local.Hour(), local.Minute()
		}
		return domain.Schedule{Kind: kind, Hour: hour, Minute: minute, DayOfMonth: &day}, true

	default:
		if r.Timer == nil || !r.Timer.After(now) {
			return domain.Schedule{}, false
		}
		at := *r.Timer
		return domain.Schedule{Kind: kind, Hour: local.Hour(), Minute: local.Minute(), At: &at}, true
	}
}

// nextSunday returns the coming Sunday (today if today is Sunday) at the default time.
func nextSunday(now time.Time) time.Time {
	offset := (7 - int(now.Weekday())) % 7
	d := now.AddDate(0, 0, offset)
	return time.Date(d.Year(), d.Month(), d.Day(), DefaultHour, DefaultMinute, 0, 0, now.Location())
}

// SlotKey formats the key identifying a trigger group.
func SlotKey(s domain.Schedule) string {
	switch s.Kind {
	case domain.ScheduleDaily:
		return fmt.Sprintf("%d:%d", s.Hour, s.Minute)
	case domain.ScheduleWeekly:
		wd := 0
		if s.Weekday != nil {
			wd = int(*s.Weekday)
		}
		return fmt.Sprintf("%d-%d:%d", wd, s.Hour, s.Minute)
	case domain.ScheduleMonthly:
		day := DefaultDayOfMonth
		if s.DayOfMonth != nil {
			day = *s.DayOfMonth
		}
		return fmt.Sprintf("%d-%d:%d", day, s.Hour, s.Minute)
	default:
		if s.At == nil {
			return ""
		}
		return s.At.UTC().Truncate(time.Second).Format(time.RFC3339)
	}
}

// BuildPayload renders the notification content of a group for a channel.
func BuildPayload(g domain.TriggerGroup, channel domain.ChannelName) domain.Payload {
	return domain.Payload{
		Title:     Title(g.Kind, len(g.Members), channel),
		Body:      Body(g.Members),
		MemberIDs: g.MemberIDs(),
	}
}

func Title(kind domain.ScheduleKind, count int, channel domain.ChannelName) string {
	var emoji, label string
	switch kind {
	case domain.ScheduleDaily:
		emoji, label = "📅", "Daily"
	case domain.ScheduleWeekly:
		emoji, label = "🗓️", "Weekly"
	case domain.ScheduleMonthly:
		emoji, label = "📆", "Monthly"
	default:
		emoji, label = "⏰", ""
	}

	noun := "Reminder"
	if channel.IsIntrusive() {
		emoji, noun = "🚨", "Alarm"
	}

	title := emoji + " "
	if label != "" {
		title += label + " "
	}
	title += noun
	if count > 1 {
		title += fmt.Sprintf("s (%d)", count)
	}
	return title
}

func Body(members []domain.Reminder) string {
	if len(members) == 1 {
		return members[0].Message
	}
	lines := make([]string, 0, len(members))
	for i, m := range members {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, m.Message))
	}
	return strings.Join(lines, "\n")
}
