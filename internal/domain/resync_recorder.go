package domain

import (
	"context"
	"time"
)

// ResyncRecord summarizes one partition resync pass.
type ResyncRecord struct {
	Channel        ChannelName
	StartedAt      time.Time
	Duration       time.Duration
	Admitted       int
	Groups         int
	Consolidated   int
	Registered     int
	RegisterFailed int
	Cancelled      int
	CancelFailed   int
	ListFailed     bool
}

type ResyncRecorder interface {
	RecordResync(ctx context.Context, records []ResyncRecord) error
	Close() error
}
