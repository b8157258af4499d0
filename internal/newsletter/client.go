// Package newsletter pushes captured subscriber emails to the external
// mailing list platform and keeps per-subscriber sync state current.
package newsletter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/digitalshelf/storefront/pkg/httpclient"
)

// ClientConfig holds the newsletter platform settings.
type ClientConfig struct {
	Endpoint string
	APIKey   string
}

// Client submits email addresses to the newsletter platform. Calls go
// through a circuit breaker so a degraded platform cannot stall sync runs.
type Client struct {
	http     *httpclient.CircuitBreakerClient
	endpoint string
	apiKey   string
	logger   *slog.Logger
}

// NewClient creates a newsletter platform client.
func NewClient(cfg ClientConfig, cb *httpclient.CircuitBreakerClient, logger *slog.Logger) *Client {
	return &Client{
		http:     cb,
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		logger:   logger,
	}
}

type subscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe submits a single email address to the newsletter platform.
func (c *Client) Subscribe(ctx context.Context, email string) error {
	body, err := json.Marshal(subscribeRequest{Email: email})
	if err != nil {
		return fmt.Errorf("marshal subscribe request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build subscribe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("submit subscription: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("newsletter platform returned status %d", resp.StatusCode)
	}

	c.logger.DebugContext(ctx, "email submitted to newsletter platform",
		slog.String("email", email),
	)

	return nil
}
