package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/config"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/handler"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/health"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/infra/notifier"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/infra/repository"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/infra/resyncrecorder"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/infra/trigger"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/observability/logging"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/observability/metrics"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/observability/middleware"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/service/alarm"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/service/categorize"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/service/dispatch"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/service/grouping"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/service/reminder"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/service/status"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	schedulerMetrics, err := metrics.NewSchedulerMetrics()
	if err != nil {
		slog.Error("failed to initialize scheduler metrics", slog.String("error", err.Error()))
		return 1
	}

	// InfluxDB for local, BigQuery for gcloud
	resyncRecorder, err := resyncrecorder.NewRecorder(ctx, resyncrecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize resync result recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := resyncRecorder.Close(); err != nil {
			slog.Warn("failed to close resync result recorder", slog.String("error", err.Error()))
		}
	}()

	var healthChecks []health.Check

	var repo domain.ReminderRepository
	if cfg.Store.UsesRedis() {
		redisClient, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			return 1
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Warn("failed to close redis client", slog.String("error", err.Error()))
			}
		}()

		repo = repository.NewReminderRepository(redisClient, cfg.Store.Key)
		healthChecks = append(healthChecks, health.RedisCheck(redisClient))
	} else {
		repo = repository.NewFileRepository(cfg.Store.FilePath)
		slog.Info("file store selected", slog.String("path", cfg.Store.FilePath))
	}
	healthChecks = append(healthChecks, health.StoreCheck(repo))

	delivery, cleanup, err := initNotifier(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize notifier", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("notifier cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	base := notifier.NewMulti(notifier.NewLogNotifier(), delivery)
	alarmTracker := alarm.NewTracker(base)

	loc := cfg.Scheduler.Location
	intrusive := trigger.NewIntrusiveChannel(loc, alarmTracker)
	regular := trigger.NewRegularChannel(loc, base)
	intrusive.Start()
	regular.Start()
	defer func() {
		<-intrusive.Stop().Done()
		<-regular.Stop().Done()
	}()

	dispatcher := dispatch.NewDispatcher(
		intrusive,
		regular,
		grouping.NewEngine(loc),
		schedulerMetrics,
		resyncRecorder,
	)

	clock := scheduleClock(loc)

	ticker := categorize.NewTicker(repo, cfg.Scheduler.TickInterval, clock)
	go ticker.Start(ctx)

	reminderService := reminder.NewService(
		repo,
		dispatcher,
		schedulerMetrics,
		reminder.WithClock(clock),
		reminder.WithConfirmationDelay(cfg.Scheduler.ConfirmationDelay),
		reminder.WithTicker(ticker),
	)

	report, err := reminderService.Start(ctx)
	if err != nil {
		slog.Error("failed to run startup resync", slog.String("error", err.Error()))
		return 1
	}
	if report.Degraded() {
		slog.Warn("startup resync degraded, jobs will be corrected on next mutation")
	}

	reminderHandler := handler.NewReminderHandler(reminderService)
	schedulerHandler := handler.NewSchedulerHandler(
		reminderService,
		status.NewReporter(intrusive, regular),
		alarmTracker,
	)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      logging.Module("reminder-scheduler"),
		TracerName:  "github.com/KasumiMercury/primind-reminder-scheduler/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecks = append(healthChecks, health.ChannelCheck(intrusive), health.ChannelCheck(regular))
	healthChecker := health.NewChecker(Version, healthChecks...)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/reminders", reminderHandler.HandleList)
		v1.POST("/reminders", reminderHandler.HandleCreate)
		v1.GET("/reminders/categorized", reminderHandler.HandleCategorized)
		v1.GET("/reminders/:id", reminderHandler.HandleGet)
		v1.PUT("/reminders/:id", reminderHandler.HandleUpdate)
		v1.DELETE("/reminders/:id", reminderHandler.HandleDelete)

		v1.POST("/resync", schedulerHandler.HandleResync)
		v1.GET("/status", schedulerHandler.HandleStatus)
		v1.GET("/alarm", schedulerHandler.HandleAlarm)
		v1.POST("/alarm/stop", schedulerHandler.HandleStopAlarm)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("store", cfg.Store.Backend),
			slog.String("time_zone", loc.String()),
			slog.Duration("confirmation_delay", cfg.Scheduler.ConfirmationDelay),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

func connectRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: cfg.TLSConfig(),
	})

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		_ = redisClient.Close()
		return nil, err
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		_ = redisClient.Close()
		return nil, err
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		_ = redisClient.Close()
		return nil, err
	}

	slog.Info("redis connected",
		slog.String("addr", cfg.Addr),
	)

	return redisClient, nil
}

// scheduleClock reads the current time in the scheduling zone so calendar
// days in categorized buckets agree with the cron schedules.
func scheduleClock(loc *time.Location) func() time.Time {
	return func() time.Time {
		return time.Now().In(loc)
	}
}
