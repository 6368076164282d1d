//go:build !gcloud

package main

import (
	"context"
	"log/slog"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/config"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/infra/notifier"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/observability"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/observability/logging"
)

// initNotifier returns the webhook notifier, or nil when WEBHOOK_URL is unset
// and deliveries only reach the log.
func initNotifier(_ context.Context, cfg *config.Config) (domain.Notifier, func() error, error) {
	if cfg.Delivery.WebhookURL == "" {
		slog.Warn("WEBHOOK_URL not set, deliveries are logged only")

		return nil, nil, nil
	}

	webhook := notifier.NewWebhookNotifier(cfg.Delivery.WebhookURL, cfg.Delivery.MaxRetries)

	slog.Info("notifier initialized",
		slog.String("type", "webhook"),
		slog.String("url", cfg.Delivery.WebhookURL),
		slog.Int("max_retries", cfg.Delivery.MaxRetries),
	)

	return webhook, nil, nil
}

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	env := logging.EnvDev
	if cfg.Environment != "" {
		env = logging.Environment(cfg.Environment)
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     cfg.ServiceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		LogLevel:      cfg.LogLevel,
		GCPProjectID:  "",
		OTLPEndpoint:  cfg.Telemetry.OTLPEndpoint,
		SamplingRate:  cfg.Telemetry.SamplingRate,
		DefaultModule: logging.Module("reminder-scheduler"),
	})
}
