package identity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/driftline/internal/adapters/identity"
	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/ports"
)

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := identity.NewClient(identity.Config{})
	assert.Error(t, err)
}

func TestLoginSuccess(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "signed.token.value",
			"user": map[string]any{
				"username":  "alice",
				"email":     "alice@example.com",
				"role":      "user",
				"is_active": true,
			},
		})
	}))
	defer srv.Close()

	client, err := identity.NewClient(identity.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	result, err := client.Login(context.Background(), ports.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/v1/auth/login", gotPath)
	assert.Equal(t, map[string]string{"username": "alice", "password": "secret"}, gotBody)
	assert.Equal(t, "signed.token.value", result.Credential)
	assert.Equal(t, "alice", result.Profile.Username)
	assert.Equal(t, domainauth.RoleUser, result.Profile.Role)
	assert.True(t, result.Profile.IsActive)
}

func TestLoginUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := identity.NewClient(identity.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Login(context.Background(), ports.Credentials{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, domainauth.ErrUnauthorized)
}

func TestLoginServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := identity.NewClient(identity.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Login(context.Background(), ports.Credentials{Username: "alice", Password: "secret"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domainauth.ErrUnauthorized)
}

func TestLoginEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"token":"","user":{}}`))
	}))
	defer srv.Close()

	client, err := identity.NewClient(identity.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Login(context.Background(), ports.Credentials{Username: "alice", Password: "secret"})
	assert.Error(t, err)
}
