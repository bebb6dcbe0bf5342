package content

// Package content is the consumer-side client for the external content API.
// Error mapping is centralized here so a 401 from any call routes through
// the session machine's forced logout instead of being handled per
// component.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/ports"
)

// Client calls the content API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds constructor parameters for Client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client // optional, defaults to a 15s-timeout client
}

// NewClient constructs a content API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("content: base URL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: cfg.BaseURL, httpClient: httpClient}, nil
}

var _ ports.FeedLister = (*Client)(nil)

// ListFeed fetches the feed for the holder of the given credential.
// 401 maps to ErrUnauthorized (forced-logout path), 403 to ErrForbidden
// (informational, never clears the credential).
func (c *Client) ListFeed(ctx context.Context, credential string) ([]ports.Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/feed", nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content api feed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domainauth.ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return nil, domainauth.ErrForbidden
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("content api feed: unexpected status %d", resp.StatusCode)
	}

	var posts []ports.Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}
	return posts, nil
}
