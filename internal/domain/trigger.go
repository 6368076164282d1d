package domain

import (
	"context"
	"slices"
	"time"
)

//go:generate mockgen -source=trigger.go -destination=trigger_mock.go -package=domain

type ScheduleKind string

const (
	ScheduleDaily   ScheduleKind = "daily"
	ScheduleWeekly  ScheduleKind = "weekly"
	ScheduleMonthly ScheduleKind = "monthly"
	ScheduleOnce    ScheduleKind = "once"
)

func (k ScheduleKind) String() string {
	return string(k)
}

func (k ScheduleKind) IsRecurring() bool {
	return k != ScheduleOnce
}

// ScheduleKinds lists the kinds in resync order.
var ScheduleKinds = []ScheduleKind{ScheduleDaily, ScheduleWeekly, ScheduleMonthly, ScheduleOnce}

// Schedule is the recurrence descriptor handed to a trigger channel.
// Weekday is set for weekly, DayOfMonth for monthly and At for once.
type Schedule struct {
	Kind       ScheduleKind  `json:"kind"`
	Hour       int           `json:"hour"`
	Minute     int           `json:"minute"`
	Weekday    *time.Weekday `json:"weekday,omitempty"`
	DayOfMonth *int          `json:"day_of_month,omitempty"`
	At         *time.Time    `json:"at,omitempty"`
}

type Payload struct {
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	MemberIDs []string `json:"member_ids"`
	// Informational jobs carry no reminder and are ignored by targeted cancel.
	Informational bool `json:"informational,omitempty"`
}

func (p Payload) Consolidated() bool {
	return len(p.MemberIDs) > 1
}

func (p Payload) HasMember(reminderID string) bool {
	return slices.Contains(p.MemberIDs, reminderID)
}

// Job is a registered trigger job as listed by a channel.
type Job struct {
	ID        string      `json:"id"`
	Channel   ChannelName `json:"channel"`
	Schedule  Schedule    `json:"schedule"`
	Payload   Payload     `json:"payload"`
	CreatedAt time.Time   `json:"created_at"`
}

// TriggerGroup is a set of reminders that fire at the same recurrence slot.
type TriggerGroup struct {
	Kind     ScheduleKind
	SlotKey  string
	Schedule Schedule
	Members  []Reminder
}

func (g TriggerGroup) MemberIDs() []string {
	ids := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		ids = append(ids, m.ID)
	}
	return ids
}

func (g TriggerGroup) Consolidated() bool {
	return len(g.Members) > 1
}

// Delivery is what a channel hands to its notifier when a job fires.
type Delivery struct {
	JobID   string       `json:"job_id"`
	Channel ChannelName  `json:"channel"`
	Kind    ScheduleKind `json:"kind"`
	Payload Payload      `json:"payload"`
	FiredAt time.Time    `json:"fired_at"`
}

// TriggerChannel is one trigger subsystem. Intrusive and regular channels are
// separate instances and never share jobs.
type TriggerChannel interface {
	Name() ChannelName
	Supports(kind ScheduleKind) bool
	RegisterRecurring(ctx context.Context, schedule Schedule, payload Payload) (string, error)
	RegisterOnce(ctx context.Context, at time.Time, payload Payload) (string, error)
	ListJobs(ctx context.Context) ([]Job, error)
	CancelJob(ctx context.Context, jobID string) error
	Permission(ctx context.Context) (Permission, error)
}

type Notifier interface {
	Notify(ctx context.Context, delivery Delivery) error
}
