package grouping

import (
	"reflect"
	"testing"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

func TestBuildPayload_Single(t *testing.T) {
	g := domain.TriggerGroup{
		Kind:    domain.ScheduleWeekly,
		Members: []domain.Reminder{{ID: "r1", Message: "Water plants"}},
	}

	p := BuildPayload(g, domain.ChannelRegular)

	if p.Title != "🗓️ Weekly Reminder" {
		t.Errorf("Title: got %q", p.Title)
	}
	if p.Body != "Water plants" {
		t.Errorf("Body: got %q", p.Body)
	}
	if !reflect.DeepEqual(p.MemberIDs, []string{"r1"}) {
		t.Errorf("MemberIDs: got %v", p.MemberIDs)
	}
	if p.Consolidated() {
		t.Error("single group reported as consolidated")
	}
}

func TestBuildPayload_Consolidated(t *testing.T) {
	g := domain.TriggerGroup{
		Kind: domain.ScheduleDaily,
		Members: []domain.Reminder{
			{ID: "r1", Message: "Stretch"},
			{ID: "r2", Message: "Drink water"},
		},
	}

	p := BuildPayload(g, domain.ChannelRegular)

	if p.Title != "📅 Daily Reminders (2)" {
		t.Errorf("Title: got %q", p.Title)
	}
	if p.Body != "1. Stretch\n2. Drink water" {
		t.Errorf("Body: got %q", p.Body)
	}
	if !reflect.DeepEqual(p.MemberIDs, []string{"r1", "r2"}) {
		t.Errorf("MemberIDs: got %v", p.MemberIDs)
	}
	if !p.Consolidated() {
		t.Error("expected consolidated payload")
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		kind    domain.ScheduleKind
		count   int
		channel domain.ChannelName
		want    string
	}{
		{domain.ScheduleOnce, 1, domain.ChannelRegular, "⏰ Reminder"},
		{domain.ScheduleOnce, 3, domain.ChannelRegular, "⏰ Reminders (3)"},
		{domain.ScheduleMonthly, 1, domain.ChannelRegular, "📆 Monthly Reminder"},
		{domain.ScheduleDaily, 1, domain.ChannelIntrusive, "🚨 Daily Alarm"},
		{domain.ScheduleOnce, 2, domain.ChannelIntrusive, "🚨 Alarms (2)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Title(tt.kind, tt.count, tt.channel); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}
