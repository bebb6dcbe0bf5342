package oidc

// Package oidc provides the redirect-based login flow against an OIDC
// identity provider. The raw ID token returned by the exchange is the
// credential this system persists: a three-segment signed token carrying
// the subject and expiry claims the session core decodes.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/driftline/driftline/internal/adapters/claims"
	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/ports"
)

// Provider implements ports.AuthFlowProvider using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client
	verifier   *gooidc.IDTokenVerifier
	extractor  claims.Extractor
	roles      ports.RoleMapper
	logoutURL  string
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	LogoutURL    string
	Extractor    claims.Extractor
	Roles        ports.RoleMapper
	HTTPClient   *http.Client // optional
}

// NewProvider creates a new OIDC provider from the discovery document.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if cfg.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}
	if cfg.Roles == nil {
		return nil, errors.New("role mapper is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(cfg.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     op.Endpoint(),
		},
		httpClient: httpClient,
		verifier:   op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		extractor:  cfg.Extractor,
		roles:      cfg.Roles,
		logoutURL:  cfg.LogoutURL,
	}, nil
}

var _ ports.AuthFlowProvider = (*Provider)(nil)

func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := randomToken(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomToken(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
	)
	return authURL, state, nonce, nil
}

func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (ports.LoginResult, error) {
	if in.Code == "" {
		return ports.LoginResult{}, errors.New("authorization code is required")
	}
	if in.Nonce == "" {
		return ports.LoginResult{}, errors.New("nonce is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return ports.LoginResult{}, errors.New("token response missing id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("verify id token: %w", err)
	}
	if idToken.Nonce != in.Nonce {
		return ports.LoginResult{}, errors.New("id token nonce mismatch")
	}

	var claimsMap map[string]any
	if err := idToken.Claims(&claimsMap); err != nil {
		return ports.LoginResult{}, fmt.Errorf("decode id token claims: %w", err)
	}

	extracted := p.extractor.Extract(claimsMap)
	username := extracted.Username
	if username == "" {
		username = idToken.Subject
	}

	return ports.LoginResult{
		Credential: rawIDToken,
		Profile: domainauth.Profile{
			Username: username,
			Email:    extracted.Email,
			Role:     p.roles.Map(extracted.Groups),
			IsActive: true,
		},
	}, nil
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
