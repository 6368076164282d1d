package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	LogLevel    slog.Level
	Environment string
	ServiceName string
	Store       *StoreConfig
	Redis       *RedisConfig
	Scheduler   *SchedulerConfig
	Delivery    DeliveryConfig
	Telemetry   *TelemetryConfig
}

// Load reads configuration from the environment. Values in a .env file in the
// working directory are applied first without overriding the environment.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "dev"
	}

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "reminder-scheduler"
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	schedulerConfig, err := LoadSchedulerConfig()
	if err != nil {
		return nil, err
	}

	telemetryConfig, err := LoadTelemetryConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:        port,
		LogLevel:    parseLogLevel(os.Getenv("LOG_LEVEL")),
		Environment: env,
		ServiceName: serviceName,
		Store:       LoadStoreConfig(),
		Redis:       redisConfig,
		Scheduler:   schedulerConfig,
		Delivery:    LoadDeliveryConfig(),
		Telemetry:   telemetryConfig,
	}, nil
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return errors.Join(ErrInvalidDotEnv, err)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
