//go:build !gcloud

package resyncrecorder

import (
	"context"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

const measurement = "resync_result"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ResyncRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "resync result recording disabled")
		return NewNoopRecorder(), nil
	}

	if !cfg.InfluxDB.Configured() {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, resync result recording disabled",
			slog.String("url", cfg.InfluxDB.URL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDB.URL, cfg.InfluxDB.Token)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDB.Org, cfg.InfluxDB.Bucket)

	slog.InfoContext(ctx, "resync result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDB.URL),
		slog.String("bucket", cfg.InfluxDB.Bucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDB.Bucket,
	}, nil
}

// toPoint maps one channel's resync onto a point tagged by channel and outcome.
func toPoint(record domain.ResyncRecord) *write.Point {
	outcome := "ok"
	if record.ListFailed || record.RegisterFailed > 0 || record.CancelFailed > 0 {
		outcome = "degraded"
	}

	return influxdb2.NewPoint(
		measurement,
		map[string]string{
			"channel": record.Channel.String(),
			"outcome": outcome,
		},
		map[string]any{
			"admitted":        record.Admitted,
			"groups":          record.Groups,
			"consolidated":    record.Consolidated,
			"registered":      record.Registered,
			"register_failed": record.RegisterFailed,
			"cancelled":       record.Cancelled,
			"cancel_failed":   record.CancelFailed,
			"list_failed":     record.ListFailed,
			"duration_ms":     record.Duration.Milliseconds(),
		},
		record.StartedAt,
	)
}

func (r *influxDBRecorder) RecordResync(ctx context.Context, records []domain.ResyncRecord) error {
	if len(records) == 0 {
		return nil
	}

	for _, record := range records {
		if err := r.writeAPI.WritePoint(ctx, toPoint(record)); err != nil {
			slog.WarnContext(ctx, "failed to write resync result to InfluxDB",
				slog.String("error", err.Error()),
				slog.String("channel", record.Channel.String()),
				slog.Time("started_at", record.StartedAt),
			)
		}
	}

	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
