//go:build !gcloud

package config

// Validate accepts an empty webhook URL, which leaves deliveries log-only.
func (c *DeliveryConfig) Validate() error {
	if c.WebhookURL == "" {
		return nil
	}
	if !isHTTPURL(c.WebhookURL) {
		return ErrInvalidWebhookURL
	}
	return nil
}
