//go:build gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/config"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/infra/notifier"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/observability"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/observability/logging"
)

func initNotifier(ctx context.Context, cfg *config.Config) (domain.Notifier, func() error, error) {
	cloudTasks, err := notifier.NewCloudTasksNotifier(ctx, notifier.CloudTasksConfig{
		ProjectID:  cfg.Delivery.GCloudProjectID,
		LocationID: cfg.Delivery.GCloudLocationID,
		QueueID:    cfg.Delivery.GCloudQueueID,
		TargetURL:  cfg.Delivery.GCloudTargetURL,
		Endpoint:   cfg.Delivery.GCloudEndpoint,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("notifier initialized",
		slog.String("type", "cloud_tasks"),
		slog.String("project", cfg.Delivery.GCloudProjectID),
		slog.String("location", cfg.Delivery.GCloudLocationID),
		slog.String("queue", cfg.Delivery.GCloudQueueID),
	)

	cleanup := func() error {
		if err := cloudTasks.Close(); err != nil {
			slog.Warn("failed to close cloud tasks client", slog.String("error", err.Error()))

			return err
		}

		return nil
	}

	return cloudTasks, cleanup, nil
}

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = cfg.ServiceName
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   env,
		LogLevel:      cfg.LogLevel,
		GCPProjectID:  cfg.Telemetry.ProjectID,
		SamplingRate:  cfg.Telemetry.SamplingRate,
		DefaultModule: logging.Module("reminder-scheduler"),
	})
}
