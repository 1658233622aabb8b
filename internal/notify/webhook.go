// Package notify posts briefing announcements to a chat webhook.
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

// WebhookClient wraps an incoming-webhook style chat endpoint
type WebhookClient struct {
	url        string
	prefix     string
	httpClient *http.Client
}

// NewWebhookClient creates a WebhookClient. prefix, when set, is prepended
// to every message as "[prefix] ".
func NewWebhookClient(url, prefix string) *WebhookClient {
	return &WebhookClient{
		url:    url,
		prefix: prefix,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendMessage posts text to the webhook. channel overrides the webhook's
// default room when non-empty.
func (c *WebhookClient) SendMessage(ctx context.Context, channel, text string) error {
	if c == nil {
		return fmt.Errorf("webhook client is nil")
	}
	if c.url == "" {
		return fmt.Errorf("chat webhook url missing")
	}

	fullText := text
	if c.prefix != "" {
		fullText = fmt.Sprintf("[%s] %s", c.prefix, text)
	}

	payload := map[string]interface{}{
		"text": fullText,
	}
	if channel != "" {
		payload["channel"] = channel
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("chat send failed status=%d body=%s", resp.StatusCode, string(raw))
	}
	return nil
}
