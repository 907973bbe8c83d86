package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookEnvelope is what downstream consumers receive for every sale event.
type WebhookEnvelope struct {
	Event   string          `json:"event"`
	SaleID  string          `json:"sale_id"`
	Payload json.RawMessage `json:"payload"`
	SentAt  string          `json:"sent_at"` // RFC 3339
}

// WebhookClient delivers sale events to the configured consumer endpoint over
// HTTP. Delivery failures are the normal case it exists for; callers wrap it
// in the circuit breaker and the retry machinery.
type WebhookClient struct {
	url        string
	httpClient *http.Client
}

func NewWebhookClient(url string) *WebhookClient {
	return &WebhookClient{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether a consumer endpoint is configured. With no endpoint
// events are logged and dropped.
func (c *WebhookClient) Enabled() bool { return c.url != "" }

// Deliver POSTs one event envelope. Any non-2xx status counts as a failure.
func (c *WebhookClient) Deliver(ctx context.Context, event, saleID string, payload json.RawMessage) error {
	env := WebhookEnvelope{
		Event:   event,
		SaleID:  saleID,
		Payload: payload,
		SentAt:  time.Now().UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("webhook: marshal envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook: endpoint returned %d", resp.StatusCode)
	}
	return nil
}
