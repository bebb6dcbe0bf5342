package bootstrap

import (
	"fmt"

	"github.com/driftline/driftline/config"
	"github.com/driftline/driftline/internal/adapters/authroles"
	"github.com/driftline/driftline/internal/adapters/claims"
	"github.com/driftline/driftline/internal/adapters/devauth"
	"github.com/driftline/driftline/internal/adapters/identity"
	"github.com/driftline/driftline/internal/adapters/oidc"
	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/ports"
)

// AuthProviders holds the authentication providers selected by AUTH_MODE.
// Exactly one of Identity or Flow is set.
type AuthProviders struct {
	Identity ports.IdentityProvider
	Flow     ports.AuthFlowProvider
}

// BuildAuthProviders selects and constructs the authentication provider
// for the configured mode.
func BuildAuthProviders(cfg config.AuthConfig) (AuthProviders, error) {
	switch cfg.Mode {
	case config.AuthModePassword:
		client, err := identity.NewClient(identity.Config{BaseURL: cfg.Password.BaseURL})
		if err != nil {
			return AuthProviders{}, fmt.Errorf("build identity client: %w", err)
		}
		return AuthProviders{Identity: client}, nil

	case config.AuthModeOAuth:
		extractor, err := claims.NewExtractor(cfg.Claims.UsernameExpr, cfg.Claims.EmailExpr, cfg.Claims.GroupsExpr)
		if err != nil {
			return AuthProviders{}, fmt.Errorf("build claims extractor: %w", err)
		}
		flow, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scope:        cfg.OAuth.Scope,
			DiscoveryURL: cfg.OAuth.DiscoveryURL,
			LogoutURL:    cfg.OAuth.LogoutURL,
			Extractor:    extractor,
			Roles: authroles.StaticRoleMapper{
				AdminGroup: cfg.AdminGroup,
				UserGroup:  cfg.UserGroup,
			},
		})
		if err != nil {
			return AuthProviders{}, fmt.Errorf("build oidc provider: %w", err)
		}
		return AuthProviders{Flow: flow}, nil

	case config.AuthModeMock:
		provider, err := devauth.NewProvider(devauth.Config{
			Username:        cfg.DevAuth.Username,
			Email:           cfg.DevAuth.Email,
			Role:            domainauth.Role(cfg.DevAuth.Role),
			SessionDuration: cfg.DevAuth.SessionDuration,
		})
		if err != nil {
			return AuthProviders{}, fmt.Errorf("build dev auth provider: %w", err)
		}
		return AuthProviders{Identity: provider}, nil

	default:
		return AuthProviders{}, fmt.Errorf("unknown auth mode: %q", cfg.Mode)
	}
}
