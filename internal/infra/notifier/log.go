package notifier

import (
	"context"
	"log/slog"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

type logNotifier struct{}

// NewLogNotifier returns a notifier that only writes deliveries to the log.
func NewLogNotifier() domain.Notifier {
	return &logNotifier{}
}

func (n *logNotifier) Notify(ctx context.Context, d domain.Delivery) error {
	slog.InfoContext(ctx, "trigger delivered",
		slog.String("channel", d.Channel.String()),
		slog.String("job_id", d.JobID),
		slog.String("kind", d.Kind.String()),
		slog.String("title", d.Payload.Title),
		slog.Int("members", len(d.Payload.MemberIDs)),
		slog.Bool("informational", d.Payload.Informational),
	)
	return nil
}
