//go:build gcloud

package resyncrecorder

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt     time.Time `bigquery:"recorded_at"`
	StartedAt      time.Time `bigquery:"started_at"`
	Channel        string    `bigquery:"channel"`
	DurationMs     int64     `bigquery:"duration_ms"`
	Admitted       int64     `bigquery:"admitted"`
	Groups         int64     `bigquery:"groups"`
	Consolidated   int64     `bigquery:"consolidated"`
	Registered     int64     `bigquery:"registered"`
	RegisterFailed int64     `bigquery:"register_failed"`
	Cancelled      int64     `bigquery:"cancelled"`
	CancelFailed   int64     `bigquery:"cancel_failed"`
	ListFailed     bool      `bigquery:"list_failed"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	schema   bigquery.Schema
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ResyncRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "resync result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQuery.ProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, resync result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQuery.ProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, resync result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQuery.ProjectID),
		)
		return NewNoopRecorder(), nil
	}

	schema, err := bigquery.InferSchema(bigQueryRecord{})
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	inserter := client.Dataset(cfg.BigQuery.Dataset).Table(cfg.BigQuery.Table).Inserter()

	slog.InfoContext(ctx, "resync result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQuery.ProjectID),
		slog.String("dataset", cfg.BigQuery.Dataset),
		slog.String("table", cfg.BigQuery.Table),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		schema:   schema,
	}, nil
}

// toRow keys each row by channel and start time so retried inserts dedupe.
func toRow(schema bigquery.Schema, record domain.ResyncRecord, recordedAt time.Time) *bigquery.StructSaver {
	return &bigquery.StructSaver{
		Schema: schema,
		Struct: bigQueryRecord{
			RecordedAt:     recordedAt,
			StartedAt:      record.StartedAt,
			Channel:        record.Channel.String(),
			DurationMs:     record.Duration.Milliseconds(),
			Admitted:       int64(record.Admitted),
			Groups:         int64(record.Groups),
			Consolidated:   int64(record.Consolidated),
			Registered:     int64(record.Registered),
			RegisterFailed: int64(record.RegisterFailed),
			Cancelled:      int64(record.Cancelled),
			CancelFailed:   int64(record.CancelFailed),
			ListFailed:     record.ListFailed,
		},
		InsertID: record.Channel.String() + "-" + strconv.FormatInt(record.StartedAt.UnixNano(), 10),
	}
}

// RecordResync never fails the pass; insert errors are logged and dropped.
func (r *bigQueryRecorder) RecordResync(ctx context.Context, records []domain.ResyncRecord) error {
	if len(records) == 0 {
		return nil
	}

	recordedAt := time.Now()
	rows := make([]*bigquery.StructSaver, len(records))
	for i, record := range records {
		rows[i] = toRow(r.schema, record, recordedAt)
	}

	err := r.inserter.Put(ctx, rows)
	if err == nil {
		return nil
	}

	attrs := []any{
		slog.String("error", err.Error()),
		slog.Int("record_count", len(records)),
	}
	var multi bigquery.PutMultiError
	if errors.As(err, &multi) {
		attrs = append(attrs, slog.Int("failed_rows", len(multi)))
	}
	slog.WarnContext(ctx, "failed to insert resync results to BigQuery", attrs...)

	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
