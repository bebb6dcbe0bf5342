package bootstrap_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/driftline/config"
	"github.com/driftline/driftline/internal/bootstrap"
	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/ports"
)

func TestBuildAuthProvidersMockMode(t *testing.T) {
	providers, err := bootstrap.BuildAuthProviders(config.AuthConfig{
		Mode: config.AuthModeMock,
		DevAuth: config.DevAuthConfig{
			Username:        "dev-user",
			Email:           "dev@example.com",
			Role:            "admin",
			SessionDuration: time.Hour,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, providers.Identity)
	assert.Nil(t, providers.Flow)

	result, err := providers.Identity.Login(context.Background(), ports.Credentials{Username: "dev-user"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, result.Profile.Role)
}

func TestBuildAuthProvidersPasswordMode(t *testing.T) {
	providers, err := bootstrap.BuildAuthProviders(config.AuthConfig{
		Mode:     config.AuthModePassword,
		Password: config.PasswordAuthConfig{BaseURL: "http://identity.local"},
	})
	require.NoError(t, err)
	assert.NotNil(t, providers.Identity)
	assert.Nil(t, providers.Flow)
}

func TestBuildAuthProvidersPasswordModeRequiresBaseURL(t *testing.T) {
	_, err := bootstrap.BuildAuthProviders(config.AuthConfig{Mode: config.AuthModePassword})
	assert.Error(t, err)
}

func TestBuildAuthProvidersUnknownMode(t *testing.T) {
	_, err := bootstrap.BuildAuthProviders(config.AuthConfig{Mode: "ldap"})
	assert.Error(t, err)
}

func TestBuildAuthProvidersOAuthRejectsBadClaimsExpr(t *testing.T) {
	_, err := bootstrap.BuildAuthProviders(config.AuthConfig{
		Mode: config.AuthModeOAuth,
		OAuth: config.OAuthConfig{
			ClientID:     "driftline",
			ClientSecret: "secret",
			RedirectURL:  "http://localhost/auth/callback",
			DiscoveryURL: "http://idp.local",
		},
		Claims: config.ClaimsConfig{UsernameExpr: "]["},
	})
	assert.Error(t, err)
}
