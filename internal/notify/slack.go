package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SlackNotifier posts newsletter summaries to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	enabled    bool
}

// NewSlackNotifier creates a SlackNotifier. Notifications are enabled
// only when webhookURL is non-empty.
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		enabled:    webhookURL != "",
	}
}

// Enabled reports whether the notifier is active.
func (n *SlackNotifier) Enabled() bool { return n.enabled }

// Send posts a message to the configured webhook.
func (n *SlackNotifier) Send(ctx context.Context, msg string) error {
	if !n.enabled {
		return nil
	}

	payload, err := json.Marshal(map[string]string{"text": msg})
	if err != nil {
		return fmt.Errorf("notify: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("notify: slack %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}

// NotifyIssue sends the short-form issue announcement for a week.
func (n *SlackNotifier) NotifyIssue(ctx context.Context, week int, text string) error {
	return n.Send(ctx, fmt.Sprintf("*Week %d Gazette is out*\n%s", week, text))
}

// NotifyFailure alerts that a newsletter run failed.
func (n *SlackNotifier) NotifyFailure(ctx context.Context, week int, cause error) error {
	return n.Send(ctx, fmt.Sprintf("*Week %d Gazette run failed*\n%v", week, cause))
}
