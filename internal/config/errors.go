package config

import "errors"

var (
	ErrRedisAddrMissing      = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB        = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidDotEnv         = errors.New(".env file could not be parsed")
	ErrInvalidStoreBackend   = errors.New("STORE_BACKEND must be redis or file")
	ErrStoreFilePathMissing  = errors.New("STORE_FILE_PATH is required for the file backend")
	ErrInvalidDuration       = errors.New("duration must be a valid Go duration")
	ErrInvalidTimeZone       = errors.New("TZ_NAME must be an IANA time zone")
	ErrInvalidSamplingRate   = errors.New("OTEL_SAMPLING_RATE must be between 0 and 1")
	ErrInvalidWebhookURL     = errors.New("WEBHOOK_URL must be an absolute http(s) URL")
	ErrCloudTasksUnspecified = errors.New("cloud tasks queue is not fully configured")
)
