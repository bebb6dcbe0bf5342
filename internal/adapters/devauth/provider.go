package devauth

// Package devauth provides a simple, config-driven IdentityProvider for
// local development. It mints an unsigned token locally so the full
// credential lifecycle (decode, expiry, migration, realtime handshake) can
// be exercised without a running identity provider.

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/ports"
)

// Config controls the dev auth provider behavior.
type Config struct {
	Username        string
	Email           string
	Role            domainauth.Role
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.IdentityProvider for local development. Any
// password is accepted; the configured identity is returned.
type Provider struct {
	cfg Config
	now func() time.Time
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Username == "" {
		return nil, errors.New("dev auth: Username is required")
	}
	if cfg.Role == "" {
		cfg.Role = domainauth.RoleUser
	}
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = 8 * time.Hour
	}
	return &Provider{cfg: cfg, now: time.Now}, nil
}

var _ ports.IdentityProvider = (*Provider)(nil)

// Login ignores the password and returns the configured identity with a
// freshly minted token.
func (p *Provider) Login(_ context.Context, creds ports.Credentials) (ports.LoginResult, error) {
	username := creds.Username
	if username == "" {
		username = p.cfg.Username
	}

	token, err := mintToken(username, p.now().Add(p.cfg.SessionDuration))
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("mint dev token: %w", err)
	}

	return ports.LoginResult{
		Credential: token,
		Profile: domainauth.Profile{
			Username: username,
			Email:    p.cfg.Email,
			Role:     p.cfg.Role,
			IsActive: true,
		},
	}, nil
}

// mintToken builds the three-segment token shape the credential store
// expects. The signature segment is a placeholder: nothing in this system
// validates signatures, and the dev provider is never used in production.
func mintToken(subject string, expiresAt time.Time) (string, error) {
	header := map[string]string{"alg": "none", "typ": "JWT"}
	claims := map[string]any{
		"sub": subject,
		"exp": expiresAt.Unix(),
	}

	h, err := json.Marshal(header)
	if err != nil {
		return "", err
	}
	c, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	enc := base64.RawURLEncoding
	return enc.EncodeToString(h) + "." + enc.EncodeToString(c) + "." + enc.EncodeToString([]byte("dev")), nil
}
