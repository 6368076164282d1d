//go:build gcloud

package config

import (
	"fmt"
	"strings"
)

// Validate requires the full Cloud Tasks queue path and an absolute target URL.
func (c *DeliveryConfig) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{key: "GCLOUD_PROJECT_ID", value: c.GCloudProjectID},
		{key: "GCLOUD_LOCATION_ID", value: c.GCloudLocationID},
		{key: "GCLOUD_QUEUE_ID", value: c.GCloudQueueID},
		{key: "GCLOUD_TARGET_URL", value: c.GCloudTargetURL},
	}

	var missing []string
	for _, field := range required {
		if field.value == "" {
			missing = append(missing, field.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrCloudTasksUnspecified, strings.Join(missing, ", "))
	}

	if !isHTTPURL(c.GCloudTargetURL) {
		return fmt.Errorf("%w: GCLOUD_TARGET_URL", ErrInvalidWebhookURL)
	}
	return nil
}
