package config

import (
	"fmt"
	"os"
	"strconv"
)

const defaultSamplingRate = 1.0

type TelemetryConfig struct {
	// OTLPEndpoint empty disables OTLP export outside gcloud builds.
	OTLPEndpoint string
	SamplingRate float64
	ProjectID    string
}

func LoadTelemetryConfig() (*TelemetryConfig, error) {
	rate := defaultSamplingRate
	if raw := os.Getenv("OTEL_SAMPLING_RATE"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSamplingRate, raw)
		}
		rate = parsed
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = os.Getenv("GCLOUD_PROJECT_ID")
	}

	return &TelemetryConfig{
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		SamplingRate: rate,
		ProjectID:    projectID,
	}, nil
}
