package resyncrecorder

import (
	"context"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

// noopRecorder discards results when no sink is configured.
type noopRecorder struct{}

func NewNoopRecorder() domain.ResyncRecorder {
	return &noopRecorder{}
}

func (*noopRecorder) RecordResync(context.Context, []domain.ResyncRecord) error {
	return nil
}

func (*noopRecorder) Close() error {
	return nil
}
