package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// New creates an FCM client sending at most ratePerSecond messages per second.
func New(serverKey, endpoint string, ratePerSecond float64) *Client {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   endpoint,
		serverKey:  serverKey,
		limiter:    rate.NewLimiter(rate.Limit(ratePerSecond), 1),
	}
}

var _ Pusher = (*Client)(nil)

// Send posts msg once. A non-2xx status or a per-message failure reported by FCM
// is an error; nothing is retried.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("push rate limit: %w", err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode push message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push message: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error("Push endpoint rejected message", "status", resp.StatusCode, "body", string(raw))
		return fmt.Errorf("push endpoint returned %s", resp.Status)
	}

	var r response
	if err := json.Unmarshal(raw, &r); err == nil && r.Failure > 0 {
		reason := "unknown"
		if len(r.Results) > 0 && r.Results[0].Error != "" {
			reason = r.Results[0].Error
		}
		return fmt.Errorf("push message not delivered: %s", reason)
	}
	log.Debug("Push message sent", "action", msg.Data.Action, "reservationID", msg.Data.ReservationID)
	return nil
}
