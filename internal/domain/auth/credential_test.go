package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/testutil"
)

func TestDecodeCredential(t *testing.T) {
	t.Run("valid token with expiry", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		raw := testutil.MakeToken("alice", &exp)

		claims, err := domainauth.DecodeCredential(raw)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject)
		require.NotNil(t, claims.ExpiresAt)
		assert.True(t, claims.ExpiresAt.Equal(exp))
	})

	t.Run("token without expiry claim", func(t *testing.T) {
		raw := testutil.MakeToken("bob", nil)

		claims, err := domainauth.DecodeCredential(raw)
		require.NoError(t, err)
		assert.Equal(t, "bob", claims.Subject)
		assert.Nil(t, claims.ExpiresAt)
	})

	t.Run("empty credential", func(t *testing.T) {
		_, err := domainauth.DecodeCredential("")
		assert.ErrorIs(t, err, domainauth.ErrNoCredential)
	})

	t.Run("tampered claims segment fails closed", func(t *testing.T) {
		raw := testutil.TamperToken(testutil.FreshToken("alice"))

		_, err := domainauth.DecodeCredential(raw)
		assert.ErrorIs(t, err, domainauth.ErrMalformedCredential)
	})

	t.Run("wrong segment count", func(t *testing.T) {
		for _, raw := range []string{"abc", "abc.def", "a.b.c.d"} {
			_, err := domainauth.DecodeCredential(raw)
			assert.ErrorIs(t, err, domainauth.ErrMalformedCredential, "input %q", raw)
		}
	})
}

func TestClaimsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no expiry never expires", func(t *testing.T) {
		claims := domainauth.Claims{Subject: "alice"}
		assert.False(t, claims.Expired(now))
		assert.False(t, claims.Expired(now.AddDate(100, 0, 0)))
	})

	t.Run("future expiry is not expired", func(t *testing.T) {
		exp := now.Add(time.Minute)
		claims := domainauth.Claims{Subject: "alice", ExpiresAt: &exp}
		assert.False(t, claims.Expired(now))
	})

	t.Run("expiry equal to now is expired", func(t *testing.T) {
		exp := now
		claims := domainauth.Claims{Subject: "alice", ExpiresAt: &exp}
		assert.True(t, claims.Expired(now))
	})

	t.Run("past expiry is expired", func(t *testing.T) {
		exp := now.Add(-time.Second)
		claims := domainauth.Claims{Subject: "alice", ExpiresAt: &exp}
		assert.True(t, claims.Expired(now))
	})
}

func TestValidCredential(t *testing.T) {
	now := time.Now()

	assert.True(t, domainauth.ValidCredential(testutil.FreshToken("alice"), now))
	assert.True(t, domainauth.ValidCredential(testutil.MakeToken("alice", nil), now))
	assert.False(t, domainauth.ValidCredential(testutil.ExpiredToken("alice"), now))
	assert.False(t, domainauth.ValidCredential("", now))
	assert.False(t, domainauth.ValidCredential("not.a.token", now))
}
