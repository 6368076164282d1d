package trigger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

type recordingNotifier struct {
	mu         sync.Mutex
	deliveries []domain.Delivery
	ch         chan domain.Delivery
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{ch: make(chan domain.Delivery, 10)}
}

func (n *recordingNotifier) Notify(_ context.Context, d domain.Delivery) error {
	n.mu.Lock()
	n.deliveries = append(n.deliveries, d)
	n.mu.Unlock()
	n.ch <- d
	return nil
}

func weekday(d time.Weekday) *time.Weekday {
	return &d
}

func day(d int) *int {
	return &d
}

func TestCronSpec(t *testing.T) {
	tests := []struct {
		name     string
		schedule domain.Schedule
		want     string
		wantErr  bool
	}{
		{
			name:     "daily",
			schedule: domain.Schedule{Kind: domain.ScheduleDaily, Hour: 8, Minute: 30},
			want:     "30 8 * * *",
		},
		{
			name:     "weekly tuesday",
			schedule: domain.Schedule{Kind: domain.ScheduleWeekly, Hour: 14, Minute: 0, Weekday: weekday(time.Tuesday)},
			want:     "0 14 * * 2",
		},
		{
			name:     "monthly fifteenth",
			schedule: domain.Schedule{Kind: domain.ScheduleMonthly, Hour: 9, Minute: 5, DayOfMonth: day(15)},
			want:     "5 9 15 * *",
		},
		{
			name:     "weekly without weekday",
			schedule: domain.Schedule{Kind: domain.ScheduleWeekly, Hour: 9},
			wantErr:  true,
		},
		{
			name:     "monthly out of range",
			schedule: domain.Schedule{Kind: domain.ScheduleMonthly, Hour: 9, DayOfMonth: day(32)},
			wantErr:  true,
		},
		{
			name:     "hour out of range",
			schedule: domain.Schedule{Kind: domain.ScheduleDaily, Hour: 24},
			wantErr:  true,
		},
		{
			name:     "once is not recurring",
			schedule: domain.Schedule{Kind: domain.ScheduleOnce},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cronSpec(tt.schedule)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSchedule) {
					t.Errorf("expected ErrInvalidSchedule, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cronSpec() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOnceSchedule_Next(t *testing.T) {
	at := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	s := onceSchedule{at: at}

	if got := s.Next(at.Add(-time.Second)); !got.Equal(at) {
		t.Errorf("Next before instant = %v, want %v", got, at)
	}
	if got := s.Next(at); !got.IsZero() {
		t.Errorf("Next at instant = %v, want zero", got)
	}
}

func TestCronChannel_Supports(t *testing.T) {
	intrusive := NewIntrusiveChannel(time.UTC, nil)
	regular := NewRegularChannel(time.UTC, nil)

	for _, kind := range domain.ScheduleKinds {
		if !regular.Supports(kind) {
			t.Errorf("regular channel should support %s", kind)
		}
	}

	if !intrusive.Supports(domain.ScheduleDaily) || !intrusive.Supports(domain.ScheduleOnce) {
		t.Error("intrusive channel should support daily and once")
	}
	if intrusive.Supports(domain.ScheduleWeekly) || intrusive.Supports(domain.ScheduleMonthly) {
		t.Error("intrusive channel should not support weekly or monthly")
	}
}

func TestCronChannel_RegisterListCancel(t *testing.T) {
	ch := NewRegularChannel(time.UTC, newRecordingNotifier())
	ctx := context.Background()

	payload := domain.Payload{Title: "t", Body: "b", MemberIDs: []string{"r1", "r2"}}
	dailyID, err := ch.RegisterRecurring(ctx, domain.Schedule{Kind: domain.ScheduleDaily, Hour: 9}, payload)
	if err != nil {
		t.Fatalf("RegisterRecurring: %v", err)
	}
	onceID, err := ch.RegisterOnce(ctx, time.Now().Add(time.Hour), domain.Payload{MemberIDs: []string{"r3"}})
	if err != nil {
		t.Fatalf("RegisterOnce: %v", err)
	}

	payload.MemberIDs[0] = "mutated"

	jobs, err := ch.ListJobs(ctx)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}

	byID := make(map[string]domain.Job)
	for _, j := range jobs {
		byID[j.ID] = j
		if j.Channel != domain.ChannelRegular {
			t.Errorf("job %s channel: got %s", j.ID, j.Channel)
		}
	}
	if got := byID[dailyID].Payload.MemberIDs; got[0] != "r1" {
		t.Errorf("registered payload aliased caller slice: %v", got)
	}
	if byID[onceID].Schedule.Kind != domain.ScheduleOnce || byID[onceID].Schedule.At == nil {
		t.Errorf("once job schedule: %+v", byID[onceID].Schedule)
	}

	if err := ch.CancelJob(ctx, dailyID); err != nil {
		t.Fatalf("CancelJob: %v", err)
	}
	if err := ch.CancelJob(ctx, dailyID); !errors.Is(err, domain.ErrJobNotFound) {
		t.Errorf("second cancel: expected ErrJobNotFound, got %v", err)
	}

	jobs, _ = ch.ListJobs(ctx)
	if len(jobs) != 1 || jobs[0].ID != onceID {
		t.Errorf("after cancel: got %+v", jobs)
	}
}

func TestCronChannel_RejectsUnsupportedAndPast(t *testing.T) {
	ctx := context.Background()
	intrusive := NewIntrusiveChannel(time.UTC, nil)

	_, err := intrusive.RegisterRecurring(ctx, domain.Schedule{Kind: domain.ScheduleWeekly, Weekday: weekday(time.Monday)}, domain.Payload{})
	if !errors.Is(err, domain.ErrUnsupportedKind) {
		t.Errorf("weekly on intrusive: expected ErrUnsupportedKind, got %v", err)
	}

	_, err = intrusive.RegisterOnce(ctx, time.Now().Add(-time.Minute), domain.Payload{})
	if !errors.Is(err, ErrInstantInPast) {
		t.Errorf("past instant: expected ErrInstantInPast, got %v", err)
	}

	jobs, _ := intrusive.ListJobs(ctx)
	if len(jobs) != 0 {
		t.Errorf("expected no jobs, got %d", len(jobs))
	}
}

func TestCronChannel_OnceFiresAndExpires(t *testing.T) {
	notifier := newRecordingNotifier()
	ch := NewIntrusiveChannel(time.UTC, notifier)
	ch.Start()
	defer ch.Stop()

	ctx := context.Background()
	id, err := ch.RegisterOnce(ctx, time.Now().Add(100*time.Millisecond), domain.Payload{Title: "wake", MemberIDs: []string{"r1"}})
	if err != nil {
		t.Fatalf("RegisterOnce: %v", err)
	}

	select {
	case d := <-notifier.ch:
		if d.JobID != id {
			t.Errorf("delivery job id: got %s, want %s", d.JobID, id)
		}
		if d.Channel != domain.ChannelIntrusive || d.Kind != domain.ScheduleOnce {
			t.Errorf("delivery: %+v", d)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("one-time job did not fire")
	}

	jobs, _ := ch.ListJobs(ctx)
	if len(jobs) != 0 {
		t.Errorf("expected fired one-time job to be removed, got %d jobs", len(jobs))
	}
}

func TestCronChannel_Permission(t *testing.T) {
	ctx := context.Background()

	p, _ := NewRegularChannel(time.UTC, nil).Permission(ctx)
	if p != domain.PermissionDenied {
		t.Errorf("without notifier: got %s, want denied", p)
	}

	p, _ = NewRegularChannel(time.UTC, newRecordingNotifier()).Permission(ctx)
	if p != domain.PermissionGranted {
		t.Errorf("with notifier: got %s, want granted", p)
	}
}
