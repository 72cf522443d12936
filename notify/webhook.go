package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-sentinel/types"
)

// Notifier delivers a lost-subject alert to the family-facing channel.
type Notifier interface {
	NotifyLost(ctx context.Context, alert types.AlertPayload) error
}

// WebhookNotifier posts the alert payload as JSON to a configured webhook,
// the same contract the original SOS flow used. Unlike the original, a
// non-2xx response is an error the caller sees.
type WebhookNotifier struct {
	URL      string
	Client   *http.Client
	Composer *Composer
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *WebhookNotifier) NotifyLost(ctx context.Context, alert types.AlertPayload) error {
	if n.URL == "" {
		return fmt.Errorf("notify: alert webhook URL not configured")
	}
	if alert.Status == "" {
		alert.Status = types.AlertStatusLost
	}
	if alert.Message == "" && n.Composer != nil {
		alert.Message = n.Composer.Compose(ctx, alert)
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("notify: encoding alert for %s: %w", alert.SubjectID, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: building alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: sending alert for %s: %w", alert.SubjectID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify: alert webhook returned %s", resp.Status)
	}
	return nil
}
