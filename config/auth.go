package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModePassword logs in against the identity service with
	// username/password credentials.
	AuthModePassword AuthMode = "password"
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "password", "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"driftline"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"driftline"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// PasswordAuthConfig contains the identity-service endpoint used when
// Mode=password.
type PasswordAuthConfig struct {
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:9091"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Username        string        `env:"USERNAME"         envDefault:"dev-user"`
	Email           string        `env:"EMAIL"            envDefault:"dev@example.com"`
	Role            string        `env:"ROLE"             envDefault:"user"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"8h"`
}

// ClaimsConfig holds the JMESPath expressions used to extract profile
// fields from identity-provider claims. Empty values fall back to the
// standard OIDC claim names.
type ClaimsConfig struct {
	UsernameExpr string `env:"USERNAME_EXPR"`
	EmailExpr    string `env:"EMAIL_EXPR"`
	GroupsExpr   string `env:"GROUPS_EXPR"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// Password auth configuration (used when Mode=password).
	Password PasswordAuthConfig `envPrefix:"PASSWORD_AUTH_"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// Claims extraction expressions (used when Mode=oauth).
	Claims ClaimsConfig `envPrefix:"AUTH_CLAIMS_"`

	// AdminGroup is the provider group name for admin users.
	AdminGroup string `env:"ADMIN_GROUP" envDefault:"admins"`

	// UserGroup is the provider group name for regular users.
	UserGroup string `env:"USER_GROUP" envDefault:"users"`
}
