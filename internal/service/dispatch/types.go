package dispatch

import (
	"time"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

type ResyncResult struct {
	Channel        domain.ChannelName `json:"channel"`
	StartedAt      time.Time          `json:"started_at"`
	Duration       time.Duration      `json:"duration"`
	Admitted       int                `json:"admitted"`
	Groups         int                `json:"groups"`
	Consolidated   int                `json:"consolidated"`
	Registered     int                `json:"registered"`
	RegisterFailed int                `json:"register_failed"`
	Cancelled      int                `json:"cancelled"`
	CancelFailed   int                `json:"cancel_failed"`
	ListFailed     bool               `json:"list_failed"`
	JobIDs         []string           `json:"job_ids"`
}

// Degraded reports whether any step of the pass failed. The channel may hold
// stale, duplicate or missing jobs until the next successful resync.
func (r ResyncResult) Degraded() bool {
	return r.ListFailed || r.RegisterFailed > 0 || r.CancelFailed > 0
}

func (r ResyncResult) record() domain.ResyncRecord {
	return domain.ResyncRecord{
		Channel:        r.Channel,
		StartedAt:      r.StartedAt,
		Duration:       r.Duration,
		Admitted:       r.Admitted,
		Groups:         r.Groups,
		Consolidated:   r.Consolidated,
		Registered:     r.Registered,
		RegisterFailed: r.RegisterFailed,
		Cancelled:      r.Cancelled,
		CancelFailed:   r.CancelFailed,
		ListFailed:     r.ListFailed,
	}
}

type ResyncReport struct {
	Results []ResyncResult `json:"results"`
}

func (r ResyncReport) Degraded() bool {
	for _, res := range r.Results {
		if res.Degraded() {
			return true
		}
	}
	return false
}

func (r ResyncReport) Result(channel domain.ChannelName) (ResyncResult, bool) {
	for _, res := range r.Results {
		if res.Channel == channel {
			return res, true
		}
	}
	return ResyncResult{}, false
}

type CancelReport struct {
	ReminderID string   `json:"reminder_id"`
	Cancelled  []string `json:"cancelled"`
	Failed     int      `json:"failed"`
}
