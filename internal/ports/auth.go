package ports

import (
	"context"

	domainauth "github.com/driftline/driftline/internal/domain/auth"
)

// Credentials are the inputs of a password login against the identity
// provider.
type Credentials struct {
	Username string
	Password string
}

// LoginResult is what every provider mode ultimately produces: the raw
// signed credential issued by the identity provider plus the profile
// snapshot to cache alongside it.
type LoginResult struct {
	Credential string
	Profile    domainauth.Profile
}

// IdentityProvider performs a direct credential exchange (password and mock
// modes): credentials in, {credential, profile} out.
type IdentityProvider interface {
	Login(ctx context.Context, creds Credentials) (LoginResult, error)
}

// BeginInput carries inputs for initiating a redirect-based auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthFlowProvider initiates and completes a redirect-based login flow
// (OIDC mode). Exchange returns the raw ID token as the credential.
type AuthFlowProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an
	// opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce.
	Exchange(ctx context.Context, in ExchangeInput) (LoginResult, error)
}

// RoleMapper maps provider groups to application roles.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}
