// Package client talks to a running alert receiver over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/emirozbir/alert-receiver/internal/models"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIError is a non-200 answer from the receiver.
type APIError struct {
	StatusCode int
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("receiver returned status %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("receiver returned status %d", e.StatusCode)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, u, nil, out)
}

func (c *Client) do(ctx context.Context, method, u string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach receiver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Send posts a webhook payload to the receiver, the same way an alert source
// would.
func (c *Client) Send(ctx context.Context, payload any) (*models.IngestAck, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	var ack models.IngestAck
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/alerts", bytes.NewReader(body), &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	var health models.HealthStatus
	if err := c.get(ctx, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *Client) Stats(ctx context.Context) (*models.AggregateStats, error) {
	var stats models.AggregateStats
	if err := c.get(ctx, "/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// History fetches the newest events. limit <= 0 leaves the choice to the
// server's default.
func (c *Client) History(ctx context.Context, limit int) ([]models.AlertEvent, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": []string{strconv.Itoa(limit)}}
	}

	var events []models.AlertEvent
	if err := c.get(ctx, "/alerts-history", query, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) BySeverity(ctx context.Context, severity string) ([]models.AlertEvent, error) {
	var events []models.AlertEvent
	if err := c.get(ctx, "/alerts/"+url.PathEscape(severity), nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}
