package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/infra/trigger"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/service/grouping"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/testutil"
)

// Friday 2024-03-15 08:00 UTC
var testNow = time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time {
	return &t
}

func newTestDispatcher(t *testing.T, recorder domain.ResyncRecorder) (*Dispatcher, *trigger.CronChannel, *trigger.CronChannel) {
	t.Helper()

	clock := testutil.FixedClock(testNow)
	intrusive := trigger.NewIntrusiveChannel(time.UTC, nil, trigger.WithClock(clock))
	regular := trigger.NewRegularChannel(time.UTC, nil, trigger.WithClock(clock))
	d := NewDispatcher(intrusive, regular, grouping.NewEngine(time.UTC), nil, recorder, WithClock(clock))
	return d, intrusive, regular
}

func listJobs(t *testing.T, ch domain.TriggerChannel) []domain.Job {
	t.Helper()

	jobs, err := ch.ListJobs(context.Background())
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	return jobs
}

func TestAdmits(t *testing.T) {
	intrusive := trigger.NewIntrusiveChannel(time.UTC, nil)
	regular := trigger.NewRegularChannel(time.UTC, nil)

	future := ptr(testNow.Add(time.Hour))
	past := ptr(testNow.Add(-time.Hour))

	tests := []struct {
		name          string
		reminder      domain.Reminder
		wantIntrusive bool
		wantRegular   bool
	}{
		{
			name:          "regular daily",
			reminder:      domain.Reminder{ID: "a", Recurring: domain.RecurrenceDaily},
			wantIntrusive: false,
			wantRegular:   true,
		},
		{
			name:          "regular weekly",
			reminder:      domain.Reminder{ID: "a", Recurring: domain.RecurrenceWeekly},
			wantIntrusive: false,
			wantRegular:   true,
		},
		{
			name:          "regular future one-off",
			reminder:      domain.Reminder{ID: "a", Timer: future},
			wantIntrusive: false,
			wantRegular:   true,
		},
		{
			name:          "regular past one-off",
			reminder:      domain.Reminder{ID: "a", Timer: past},
			wantIntrusive: false,
			wantRegular:   false,
		},
		{
			name:          "regular untimed one-off",
			reminder:      domain.Reminder{ID: "a"},
			wantIntrusive: false,
			wantRegular:   false,
		},
		{
			name:          "intrusive daily",
			reminder:      domain.Reminder{ID: "a", IsIntrusive: true, Recurring: domain.RecurrenceDaily},
			wantIntrusive: true,
			wantRegular:   false,
		},
		{
			name:          "intrusive future one-off",
			reminder:      domain.Reminder{ID: "a", IsIntrusive: true, Timer: future},
			wantIntrusive: true,
			wantRegular:   false,
		},
		{
			name:          "intrusive weekly is not scheduled",
			reminder:      domain.Reminder{ID: "a", IsIntrusive: true, Recurring: domain.RecurrenceWeekly},
			wantIntrusive: false,
			wantRegular:   false,
		},
		{
			name:          "intrusive monthly is not scheduled",
			reminder:      domain.Reminder{ID: "a", IsIntrusive: true, Recurring: domain.RecurrenceMonthly},
			wantIntrusive: false,
			wantRegular:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Admits(intrusive, tt.reminder, testNow); got != tt.wantIntrusive {
				t.Errorf("intrusive: got %v, want %v", got, tt.wantIntrusive)
			}
			if got := Admits(regular, tt.reminder, testNow); got != tt.wantRegular {
				t.Errorf("regular: got %v, want %v", got, tt.wantRegular)
			}
		})
	}
}

func TestDispatcher_ResyncAll_WeeklyTuesday(t *testing.T) {
	d, intrusive, regular := newTestDispatcher(t, nil)

	// Tuesday 2024-03-19 14:30
	reminders := []domain.Reminder{
		{ID: "w1", Message: "Gym", Recurring: domain.RecurrenceWeekly, Timer: ptr(time.Date(2024, 3, 19, 14, 30, 0, 0, time.UTC))},
	}

	report := d.ResyncAll(context.Background(), reminders)
	if report.Degraded() {
		t.Fatalf("unexpected degraded report: %+v", report)
	}

	jobs := listJobs(t, regular)
	if len(jobs) != 1 {
		t.Fatalf("regular jobs: got %d, want 1", len(jobs))
	}
	s := jobs[0].Schedule
	if s.Kind != domain.ScheduleWeekly || s.Hour != 14 || s.Minute != 30 {
		t.Errorf("schedule: got %+v", s)
	}
	if s.Weekday == nil || *s.Weekday != time.Tuesday {
		t.Errorf("weekday: got %v, want Tuesday", s.Weekday)
	}
	if jobs[0].Payload.Title != "🗓️ Weekly Reminder" || jobs[0].Payload.Body != "Gym" {
		t.Errorf("payload: got %+v", jobs[0].Payload)
	}

	if n := len(listJobs(t, intrusive)); n != 0 {
		t.Errorf("intrusive jobs: got %d, want 0", n)
	}
}

func TestDispatcher_ResyncAll_ConsolidatesDailySlot(t *testing.T) {
	d, _, regular := newTestDispatcher(t, nil)

	reminders := []domain.Reminder{
		{ID: "a", Message: "Vitamins", Recurring: domain.RecurrenceDaily, Timer: ptr(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))},
		{ID: "b", Message: "Water plants", Recurring: domain.RecurrenceDaily, Timer: ptr(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))},
	}

	report := d.ResyncAll(context.Background(), reminders)
	res, ok := report.Result(domain.ChannelRegular)
	if !ok {
		t.Fatal("missing regular result")
	}
	if res.Groups != 1 || res.Consolidated != 1 || res.Registered != 1 {
		t.Errorf("result: got %+v", res)
	}

	jobs := listJobs(t, regular)
	if len(jobs) != 1 {
		t.Fatalf("regular jobs: got %d, want 1", len(jobs))
	}
	p := jobs[0].Payload
	if p.Title != "📅 Daily Reminders (2)" {
		t.Errorf("title: got %q", p.Title)
	}
	if p.Body != "1. Vitamins\n2. Water plants" {
		t.Errorf("body: got %q", p.Body)
	}
	if len(p.MemberIDs) != 2 || p.MemberIDs[0] != "a" || p.MemberIDs[1] != "b" {
		t.Errorf("members: got %v", p.MemberIDs)
	}
}

func TestDispatcher_ResyncAll_IntrusiveWeeklyNotScheduled(t *testing.T) {
	d, intrusive, regular := newTestDispatcher(t, nil)

	reminders := []domain.Reminder{
		{ID: "x", Message: "Standup", IsIntrusive: true, Recurring: domain.RecurrenceWeekly},
		{ID: "y", Message: "Pills", IsIntrusive: true, Recurring: domain.RecurrenceDaily},
	}

	d.ResyncAll(context.Background(), reminders)

	jobs := listJobs(t, intrusive)
	if len(jobs) != 1 {
		t.Fatalf("intrusive jobs: got %d, want 1", len(jobs))
	}
	if jobs[0].Schedule.Kind != domain.ScheduleDaily || !jobs[0].Payload.HasMember("y") {
		t.Errorf("job: got %+v", jobs[0])
	}
	if !strings.Contains(jobs[0].Payload.Title, "Alarm") {
		t.Errorf("intrusive title: got %q", jobs[0].Payload.Title)
	}
	if n := len(listJobs(t, regular)); n != 0 {
		t.Errorf("regular jobs: got %d, want 0", n)
	}
}

func TestDispatcher_ResyncAll_ReplacesPreviousJobs(t *testing.T) {
	d, _, regular := newTestDispatcher(t, nil)
	ctx := context.Background()

	a := domain.Reminder{ID: "a", Message: "A", Recurring: domain.RecurrenceDaily}
	b := domain.Reminder{ID: "b", Message: "B", Recurring: domain.RecurrenceDaily}

	d.ResyncAll(ctx, []domain.Reminder{a, b})
	first := listJobs(t, regular)
	if len(first) != 1 || len(first[0].Payload.MemberIDs) != 2 {
		t.Fatalf("first pass jobs: got %+v", first)
	}

	// Deleting one member and resyncing leaves a single-member job.
	report := d.ResyncAll(ctx, []domain.Reminder{b})
	res, _ := report.Result(domain.ChannelRegular)
	if res.Cancelled != 1 {
		t.Errorf("cancelled: got %d, want 1", res.Cancelled)
	}

	second := listJobs(t, regular)
	if len(second) != 1 {
		t.Fatalf("second pass jobs: got %d, want 1", len(second))
	}
	if second[0].ID == first[0].ID {
		t.Error("expected a freshly registered job")
	}
	if second[0].Payload.Title != "📅 Daily Reminder" || second[0].Payload.Body != "B" {
		t.Errorf("payload: got %+v", second[0].Payload)
	}

	// Deleting the sole member leaves no job.
	d.ResyncAll(ctx, nil)
	if n := len(listJobs(t, regular)); n != 0 {
		t.Errorf("jobs after empty resync: got %d, want 0", n)
	}
}

func TestDispatcher_ResyncAll_PartitionsAreExclusive(t *testing.T) {
	d, intrusive, regular := newTestDispatcher(t, nil)

	reminders := []domain.Reminder{
		{ID: "r1", Message: "R1", Recurring: domain.RecurrenceDaily},
		{ID: "i1", Message: "I1", IsIntrusive: true, Recurring: domain.RecurrenceDaily},
		{ID: "r2", Message: "R2", Timer: ptr(testNow.Add(2 * time.Hour))},
		{ID: "i2", Message: "I2", IsIntrusive: true, Timer: ptr(testNow.Add(3 * time.Hour))},
	}

	d.ResyncAll(context.Background(), reminders)

	for _, job := range listJobs(t, intrusive) {
		for _, id := range job.Payload.MemberIDs {
			if !strings.HasPrefix(id, "i") {
				t.Errorf("intrusive channel holds regular reminder %s", id)
			}
		}
	}
	for _, job := range listJobs(t, regular) {
		for _, id := range job.Payload.MemberIDs {
			if !strings.HasPrefix(id, "r") {
				t.Errorf("regular channel holds intrusive reminder %s", id)
			}
		}
	}
	if n := len(listJobs(t, intrusive)); n != 2 {
		t.Errorf("intrusive jobs: got %d, want 2", n)
	}
	if n := len(listJobs(t, regular)); n != 2 {
		t.Errorf("regular jobs: got %d, want 2", n)
	}
}

func TestDispatcher_ResyncAll_SkipsExpiredOneOff(t *testing.T) {
	d, _, regular := newTestDispatcher(t, nil)

	reminders := []domain.Reminder{
		{ID: "old", Message: "Old", Timer: ptr(testNow.Add(-time.Minute))},
		{ID: "now", Message: "Now", Timer: ptr(testNow)},
	}

	report := d.ResyncAll(context.Background(), reminders)
	res, _ := report.Result(domain.ChannelRegular)
	if res.Admitted != 0 || res.Registered != 0 {
		t.Errorf("result: got %+v", res)
	}
	if n := len(listJobs(t, regular)); n != 0 {
		t.Errorf("jobs: got %d, want 0", n)
	}
}

func expectChannelIdentity(ch *domain.MockTriggerChannel, name domain.ChannelName, kinds ...domain.ScheduleKind) {
	ch.EXPECT().Name().Return(name).AnyTimes()
	ch.EXPECT().Supports(gomock.Any()).DoAndReturn(func(kind domain.ScheduleKind) bool {
		for _, k := range kinds {
			if k == kind {
				return true
			}
		}
		return false
	}).AnyTimes()
}

func TestDispatcher_ResyncAll_ContinuesPastFailures(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(ch *domain.MockTriggerChannel)
		verify func(t *testing.T, res ResyncResult)
	}{
		{
			name: "list failure still registers",
			setup: func(ch *domain.MockTriggerChannel) {
				ch.EXPECT().ListJobs(gomock.Any()).Return(nil, errors.New("list down"))
				ch.EXPECT().RegisterRecurring(gomock.Any(), gomock.Any(), gomock.Any()).Return("regular-1", nil).Times(2)
			},
			verify: func(t *testing.T, res ResyncResult) {
				if !res.ListFailed || res.Registered != 2 {
					t.Errorf("result: got %+v", res)
				}
			},
		},
		{
			name: "cancel failure continues with remaining jobs",
			setup: func(ch *domain.MockTriggerChannel) {
				ch.EXPECT().ListJobs(gomock.Any()).Return([]domain.Job{{ID: "j1"}, {ID: "j2"}}, nil)
				ch.EXPECT().CancelJob(gomock.Any(), "j1").Return(errors.New("cancel down"))
				ch.EXPECT().CancelJob(gomock.Any(), "j2").Return(nil)
				ch.EXPECT().RegisterRecurring(gomock.Any(), gomock.Any(), gomock.Any()).Return("regular-1", nil).Times(2)
			},
			verify: func(t *testing.T, res ResyncResult) {
				if res.CancelFailed != 1 || res.Cancelled != 1 || res.Registered != 2 {
					t.Errorf("result: got %+v", res)
				}
			},
		},
		{
			name: "register failure continues with remaining groups",
			setup: func(ch *domain.MockTriggerChannel) {
				ch.EXPECT().ListJobs(gomock.Any()).Return(nil, nil)
				gomock.InOrder(
					ch.EXPECT().RegisterRecurring(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("register down")),
					ch.EXPECT().RegisterRecurring(gomock.Any(), gomock.Any(), gomock.Any()).Return("regular-2", nil),
				)
			},
			verify: func(t *testing.T, res ResyncResult) {
				if res.RegisterFailed != 1 || res.Registered != 1 {
					t.Errorf("result: got %+v", res)
				}
				if len(res.JobIDs) != 1 || res.JobIDs[0] != "regular-2" {
					t.Errorf("job ids: got %v", res.JobIDs)
				}
			},
		},
	}

	reminders := []domain.Reminder{
		{ID: "a", Message: "A", Recurring: domain.RecurrenceDaily},
		{ID: "b", Message: "B", Recurring: domain.RecurrenceMonthly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			intrusive := domain.NewMockTriggerChannel(ctrl)
			expectChannelIdentity(intrusive, domain.ChannelIntrusive, domain.ScheduleDaily, domain.ScheduleOnce)
			intrusive.EXPECT().ListJobs(gomock.Any()).Return(nil, nil)

			regular := domain.NewMockTriggerChannel(ctrl)
			expectChannelIdentity(regular, domain.ChannelRegular, domain.ScheduleKinds...)
			tt.setup(regular)

			d := NewDispatcher(intrusive, regular, grouping.NewEngine(time.UTC), nil, nil,
				WithClock(func() time.Time { return testNow }),
			)

			report := d.ResyncAll(context.Background(), reminders)
			if !report.Degraded() {
				t.Error("expected degraded report")
			}
			res, ok := report.Result(domain.ChannelRegular)
			if !ok {
				t.Fatal("missing regular result")
			}
			tt.verify(t, res)
		})
	}
}

type recorderStub struct {
	records []domain.ResyncRecord
	err     error
}

func (r *recorderStub) RecordResync(_ context.Context, records []domain.ResyncRecord) error {
	r.records = append(r.records, records...)
	return r.err
}

func (r *recorderStub) Close() error {
	return nil
}

func TestDispatcher_ResyncAll_RecordsResults(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "recorder succeeds"},
		{name: "recorder failure is ignored", err: errors.New("influx down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorderStub{err: tt.err}
			d, _, _ := newTestDispatcher(t, rec)

			d.ResyncAll(context.Background(), []domain.Reminder{
				{ID: "a", Message: "A", Recurring: domain.RecurrenceDaily},
			})

			if len(rec.records) != 2 {
				t.Fatalf("records: got %d, want 2", len(rec.records))
			}
			if rec.records[0].Channel != domain.ChannelIntrusive || rec.records[1].Channel != domain.ChannelRegular {
				t.Errorf("record channels: got %s, %s", rec.records[0].Channel, rec.records[1].Channel)
			}
			if rec.records[1].Registered != 1 {
				t.Errorf("regular registered: got %d, want 1", rec.records[1].Registered)
			}
		})
	}
}

func TestDispatcher_CancelReminder(t *testing.T) {
	d, intrusive, regular := newTestDispatcher(t, nil)
	ctx := context.Background()

	reminders := []domain.Reminder{
		{ID: "a", Message: "A", Recurring: domain.RecurrenceDaily},
		{ID: "b", Message: "B", Recurring: domain.RecurrenceDaily},
		{ID: "c", Message: "C", Recurring: domain.RecurrenceMonthly},
		{ID: "i", Message: "I", IsIntrusive: true, Recurring: domain.RecurrenceDaily},
	}
	d.ResyncAll(ctx, reminders)

	info, err := regular.RegisterOnce(ctx, testNow.Add(time.Hour), domain.Payload{
		Title:         "✅ Reminder scheduled",
		MemberIDs:     []string{"a"},
		Informational: true,
	})
	if err != nil {
		t.Fatalf("RegisterOnce: %v", err)
	}

	report := d.CancelReminder(ctx, "a")
	if len(report.Cancelled) != 1 || report.Failed != 0 {
		t.Fatalf("report: got %+v", report)
	}

	jobs := listJobs(t, regular)
	ids := make(map[string]bool, len(jobs))
	for _, job := range jobs {
		ids[job.ID] = true
		if !job.Payload.Informational && job.Payload.HasMember("a") {
			t.Errorf("job %s still carries reminder a", job.ID)
		}
	}
	if !ids[info] {
		t.Error("informational job must survive targeted cancel")
	}
	// The consolidated a+b job is gone and b waits for the next resync.
	if len(jobs) != 2 {
		t.Errorf("regular jobs: got %d, want 2", len(jobs))
	}
	if n := len(listJobs(t, intrusive)); n != 1 {
		t.Errorf("intrusive jobs: got %d, want 1", n)
	}
}

func TestDispatcher_CancelReminder_ListFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	intrusive := domain.NewMockTriggerChannel(ctrl)
	expectChannelIdentity(intrusive, domain.ChannelIntrusive)
	intrusive.EXPECT().ListJobs(gomock.Any()).Return(nil, errors.New("list down"))

	regular := domain.NewMockTriggerChannel(ctrl)
	expectChannelIdentity(regular, domain.ChannelRegular)
	regular.EXPECT().ListJobs(gomock.Any()).Return([]domain.Job{
		{ID: "j1", Payload: domain.Payload{MemberIDs: []string{"a"}}},
		{ID: "j2", Payload: domain.Payload{MemberIDs: []string{"z"}}},
	}, nil)
	regular.EXPECT().CancelJob(gomock.Any(), "j1").Return(nil)

	d := NewDispatcher(intrusive, regular, grouping.NewEngine(time.UTC), nil, nil)
	report := d.CancelReminder(context.Background(), "a")

	if report.Failed != 1 {
		t.Errorf("failed: got %d, want 1", report.Failed)
	}
	if len(report.Cancelled) != 1 || report.Cancelled[0] != "j1" {
		t.Errorf("cancelled: got %v", report.Cancelled)
	}
}
