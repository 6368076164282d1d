package config

import (
	"net/url"
	"os"
	"strconv"
)

const defaultWebhookMaxRetries = 3

// DeliveryConfig selects where fired triggers are pushed besides the log.
type DeliveryConfig struct {
	WebhookURL string
	MaxRetries int

	GCloudProjectID  string
	GCloudLocationID string
	GCloudQueueID    string
	GCloudTargetURL  string
	GCloudEndpoint   string
}

func LoadDeliveryConfig() DeliveryConfig {
	maxRetries := defaultWebhookMaxRetries
	if v := os.Getenv("WEBHOOK_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxRetries = parsed
		}
	}

	return DeliveryConfig{
		WebhookURL: os.Getenv("WEBHOOK_URL"),
		MaxRetries: maxRetries,

		GCloudProjectID:  os.Getenv("GCLOUD_PROJECT_ID"),
		GCloudLocationID: os.Getenv("GCLOUD_LOCATION_ID"),
		GCloudQueueID:    os.Getenv("GCLOUD_QUEUE_ID"),
		GCloudTargetURL:  os.Getenv("GCLOUD_TARGET_URL"),
		GCloudEndpoint:   os.Getenv("GCLOUD_TASKS_ENDPOINT"),
	}
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
