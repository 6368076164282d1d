package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

func job(kind domain.ScheduleKind, members ...string) domain.Job {
	return domain.Job{
		ID:       string(kind) + "-" + members[0],
		Schedule: domain.Schedule{Kind: kind},
		Payload:  domain.Payload{MemberIDs: members},
	}
}

func TestReporter_Report(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	intrusive := domain.NewMockTriggerChannel(ctrl)
	intrusive.EXPECT().Name().Return(domain.ChannelIntrusive).AnyTimes()
	intrusive.EXPECT().Supports(gomock.Any()).DoAndReturn(func(k domain.ScheduleKind) bool {
		return k == domain.ScheduleDaily || k == domain.ScheduleOnce
	}).AnyTimes()
	intrusive.EXPECT().Permission(gomock.Any()).Return(domain.PermissionGranted, nil)
	intrusive.EXPECT().ListJobs(gomock.Any()).Return([]domain.Job{
		job(domain.ScheduleDaily, "i1"),
	}, nil)

	regular := domain.NewMockTriggerChannel(ctrl)
	regular.EXPECT().Name().Return(domain.ChannelRegular).AnyTimes()
	regular.EXPECT().Supports(gomock.Any()).Return(true).AnyTimes()
	regular.EXPECT().Permission(gomock.Any()).Return(domain.PermissionDenied, nil)
	regular.EXPECT().ListJobs(gomock.Any()).Return([]domain.Job{
		job(domain.ScheduleDaily, "a", "b"),
		job(domain.ScheduleWeekly, "c"),
		job(domain.ScheduleOnce, "d"),
		{
			ID:       "confirm",
			Schedule: domain.Schedule{Kind: domain.ScheduleOnce},
			Payload:  domain.Payload{MemberIDs: []string{"c"}, Informational: true},
		},
	}, nil)

	r := NewReporter(intrusive, regular)
	r.now = func() time.Time { return time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC) }

	report := r.Report(context.Background())

	if len(report.Channels) != 2 {
		t.Fatalf("channels: got %d, want 2", len(report.Channels))
	}
	if report.Jobs != 4 || report.Reminders != 5 {
		t.Errorf("totals: got jobs=%d reminders=%d, want 4 and 5", report.Jobs, report.Reminders)
	}

	in := report.Channels[0]
	if in.Permission != domain.PermissionGranted || in.Jobs != 1 || in.Single != 1 {
		t.Errorf("intrusive: got %+v", in)
	}
	if _, ok := in.ByKind[domain.ScheduleWeekly]; ok {
		t.Error("intrusive status must not list unsupported kinds")
	}

	reg := report.Channels[1]
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"jobs", reg.Jobs, 3},
		{"single", reg.Single, 2},
		{"consolidated", reg.Consolidated, 1},
		{"informational", reg.Informational, 1},
		{"reminders", reg.Reminders, 4},
		{"daily", reg.ByKind[domain.ScheduleDaily], 1},
		{"weekly", reg.ByKind[domain.ScheduleWeekly], 1},
		{"monthly", reg.ByKind[domain.ScheduleMonthly], 0},
		{"once", reg.ByKind[domain.ScheduleOnce], 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}
	if reg.Permission != domain.PermissionDenied {
		t.Errorf("permission: got %s", reg.Permission)
	}
}

func TestReporter_ReportListFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ch := domain.NewMockTriggerChannel(ctrl)
	ch.EXPECT().Name().Return(domain.ChannelRegular).AnyTimes()
	ch.EXPECT().Supports(gomock.Any()).Return(true).AnyTimes()
	ch.EXPECT().Permission(gomock.Any()).Return(domain.Permission(""), errors.New("unavailable"))
	ch.EXPECT().ListJobs(gomock.Any()).Return(nil, errors.New("backend down"))

	report := NewReporter(ch).Report(context.Background())

	cs := report.Channels[0]
	if cs.Permission != domain.PermissionUndetermined {
		t.Errorf("permission: got %s, want undetermined", cs.Permission)
	}
	if cs.Error != "backend down" || cs.Jobs != 0 {
		t.Errorf("status: got %+v", cs)
	}
}
