//go:build gcloud

package observability

import (
	"context"

	mexporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// newTraceExporter exports to Cloud Trace; nil without a project.
func newTraceExporter(_ context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	if cfg.GCPProjectID == "" {
		return nil, nil
	}
	return texporter.New(texporter.WithProjectID(cfg.GCPProjectID))
}

func newMetricExporter(_ context.Context, cfg Config) (sdkmetric.Exporter, error) {
	if cfg.GCPProjectID == "" {
		return nil, nil
	}
	return mexporter.New(mexporter.WithProjectID(cfg.GCPProjectID))
}
