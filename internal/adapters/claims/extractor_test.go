package claims_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/driftline/internal/adapters/claims"
)

func TestNewExtractorDefaults(t *testing.T) {
	e, err := claims.NewExtractor("", "", "")
	require.NoError(t, err)
	assert.Equal(t, claims.DefaultUsernameExpr, e.UsernameExpr)
	assert.Equal(t, claims.DefaultEmailExpr, e.EmailExpr)
	assert.Equal(t, claims.DefaultGroupsExpr, e.GroupsExpr)
}

func TestNewExtractorRejectsBadExpression(t *testing.T) {
	_, err := claims.NewExtractor("][", "", "")
	assert.Error(t, err)
}

func TestExtractStandardClaims(t *testing.T) {
	e, err := claims.NewExtractor("", "", "")
	require.NoError(t, err)

	result := e.Extract(map[string]any{
		"preferred_username": "alice",
		"email":              "alice@example.com",
		"groups":             []any{"admins", "users"},
		"sub":                "u-1",
	})

	assert.Equal(t, "alice", result.Username)
	assert.Equal(t, "alice@example.com", result.Email)
	assert.Equal(t, []string{"admins", "users"}, result.Groups)
}

func TestExtractUsernameFallbackChain(t *testing.T) {
	e, err := claims.NewExtractor("", "", "")
	require.NoError(t, err)

	result := e.Extract(map[string]any{"sub": "u-1"})
	assert.Equal(t, "u-1", result.Username)

	result = e.Extract(map[string]any{"nickname": "ali", "sub": "u-1"})
	assert.Equal(t, "ali", result.Username)
}

func TestExtractCustomExpressions(t *testing.T) {
	e, err := claims.NewExtractor("identity.handle", "identity.mail", "memberships[].name")
	require.NoError(t, err)

	result := e.Extract(map[string]any{
		"identity": map[string]any{"handle": "alice", "mail": "a@example.com"},
		"memberships": []any{
			map[string]any{"name": "admins"},
			map[string]any{"name": "users"},
		},
	})

	assert.Equal(t, "alice", result.Username)
	assert.Equal(t, "a@example.com", result.Email)
	assert.Equal(t, []string{"admins", "users"}, result.Groups)
}

func TestExtractMissingClaimsYieldZeroValues(t *testing.T) {
	e, err := claims.NewExtractor("", "", "")
	require.NoError(t, err)

	result := e.Extract(map[string]any{})
	assert.Empty(t, result.Username)
	assert.Empty(t, result.Email)
	assert.Nil(t, result.Groups)
}

func TestExtractNonStringGroupEntriesIgnored(t *testing.T) {
	e, err := claims.NewExtractor("", "", "")
	require.NoError(t, err)

	result := e.Extract(map[string]any{"groups": []any{"admins", 42, nil, "users"}})
	assert.Equal(t, []string{"admins", "users"}, result.Groups)
}
