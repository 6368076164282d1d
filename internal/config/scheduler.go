package config

import (
	"fmt"
	"os"
	"time"
)

const (
	confirmationDelayEnv = "CONFIRMATION_DELAY"
	tickIntervalEnv      = "CATEGORIZE_TICK_INTERVAL"
	timeZoneEnv          = "TZ_NAME"

	defaultConfirmationDelay = 3 * time.Second
	defaultTickInterval      = time.Minute
)

type SchedulerConfig struct {
	// ConfirmationDelay of zero disables creation confirmations.
	ConfirmationDelay time.Duration
	TickInterval      time.Duration
	// Location is used to read time-of-day from reminder timers.
	Location *time.Location
}

func LoadSchedulerConfig() (*SchedulerConfig, error) {
	confirmationDelay, err := durationFromEnv(confirmationDelayEnv, defaultConfirmationDelay)
	if err != nil {
		return nil, err
	}

	tickInterval, err := durationFromEnv(tickIntervalEnv, defaultTickInterval)
	if err != nil {
		return nil, err
	}
	if tickInterval <= 0 {
		return nil, fmt.Errorf("%s: %w", tickIntervalEnv, ErrInvalidDuration)
	}

	loc := time.Local
	if name := os.Getenv(timeZoneEnv); name != "" {
		loc, err = time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTimeZone, name)
		}
	}

	return &SchedulerConfig{
		ConfirmationDelay: confirmationDelay,
		TickInterval:      tickInterval,
		Location:          loc,
	}, nil
}

func durationFromEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: %w", key, ErrInvalidDuration)
	}
	return d, nil
}
