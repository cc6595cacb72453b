package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperr "github.com/jsseok/futseeker/pkg/errors"
)

// Webhook posts alert messages to a Discord-compatible webhook URL as a
// JSON body {"content": ...}
type Webhook struct {
	url    string
	client *http.Client
}

var _ Notifier = (*Webhook)(nil)

type webhookPayload struct {
	Content string `json:"content"`
}

// NewWebhook creates a webhook notifier
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Notify implements Notifier
func (w *Webhook) Notify(ctx context.Context, message string) error {
	body, err := json.Marshal(webhookPayload{Content: message})
	if err != nil {
		return apperr.NewNotification("webhook", "failed to encode payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return apperr.NewNotification("webhook", "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return apperr.NewNotification("webhook", "webhook request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperr.NewNotification("webhook",
			fmt.Sprintf("webhook returned status %d", resp.StatusCode), nil)
	}
	return nil
}
