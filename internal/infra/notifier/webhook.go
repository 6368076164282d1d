package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

// WebhookNotifier posts each delivery as JSON to a fixed URL.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
}

func NewWebhookNotifier(url string, maxRetries int) *WebhookNotifier {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &WebhookNotifier{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		maxRetries: maxRetries,
		baseDelay:  100 * time.Millisecond,
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, d domain.Delivery) error {
	reqBody, err := json.Marshal(newDeliveryMessage(d))
	if err != nil {
		return fmt.Errorf("failed to marshal delivery: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < n.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * n.baseDelay
			slog.DebugContext(ctx, "retrying webhook delivery",
				slog.String("job_id", d.JobID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := n.doRequest(ctx, reqBody, d.JobID); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	slog.ErrorContext(ctx, "all retries exhausted for webhook delivery",
		slog.String("job_id", d.JobID),
		slog.Int("max_retries", n.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to deliver after %d retries: %w", n.maxRetries, lastErr)
}

func (n *WebhookNotifier) doRequest(ctx context.Context, reqBody []byte, jobID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "failed to send webhook",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.WarnContext(ctx, "unexpected status code from webhook",
			slog.String("job_id", jobID),
			slog.Int("status_code", resp.StatusCode),
		)
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
