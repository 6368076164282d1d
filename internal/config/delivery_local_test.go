//go:build !gcloud

package config

import (
	"errors"
	"testing"
)

func TestDeliveryConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{name: "unset", url: ""},
		{name: "https", url: "https://push.example.com/hook"},
		{name: "relative", url: "/hook", wantErr: ErrInvalidWebhookURL},
		{name: "wrong scheme", url: "ftp://example.com", wantErr: ErrInvalidWebhookURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DeliveryConfig{WebhookURL: tt.url}
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
