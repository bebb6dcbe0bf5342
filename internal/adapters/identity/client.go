package identity

// Package identity is the HTTP client for the external identity provider's
// direct login endpoint (password mode): credentials in, credential and
// profile out. The provider signs and validates tokens; this client only
// transports them.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/ports"
)

// Client calls the identity provider over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds constructor parameters for Client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client // optional, defaults to a 15s-timeout client
}

// NewClient constructs an identity provider client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("identity: base URL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: cfg.BaseURL, httpClient: httpClient}, nil
}

var _ ports.IdentityProvider = (*Client)(nil)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string             `json:"token"`
	User  domainauth.Profile `json:"user"`
}

// Login exchanges credentials for a signed token and profile snapshot.
// A 401 maps to domain ErrUnauthorized; any other non-2xx is a transport
// error surfaced to the caller.
func (c *Client) Login(ctx context.Context, creds ports.Credentials) (ports.LoginResult, error) {
	body, err := json.Marshal(loginRequest{Username: creds.Username, Password: creds.Password})
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/login", bytes.NewReader(body))
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("identity provider login: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ports.LoginResult{}, domainauth.ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return ports.LoginResult{}, fmt.Errorf("identity provider login: unexpected status %d", resp.StatusCode)
	}

	var decoded loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.LoginResult{}, fmt.Errorf("decode login response: %w", err)
	}
	if decoded.Token == "" {
		return ports.LoginResult{}, fmt.Errorf("identity provider login: empty token in response")
	}

	return ports.LoginResult{Credential: decoded.Token, Profile: decoded.User}, nil
}
