package credstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/driftline/internal/adapters/memkv"
	"github.com/driftline/driftline/internal/credstore"
	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/testutil"
)

func newStore(t *testing.T) (*credstore.Store, *memkv.Store) {
	t.Helper()
	kv := memkv.New()
	store := credstore.New(credstore.Options{KV: kv})
	return store, kv
}

func TestReadAbsent(t *testing.T) {
	store, _ := newStore(t)

	_, ok := store.Read(context.Background())
	assert.False(t, ok)
}

func TestWriteThenRead(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	token := testutil.FreshToken("alice")
	profile := domainauth.Profile{Username: "alice", Role: domainauth.RoleUser, IsActive: true}

	require.NoError(t, store.Write(ctx, token, profile))

	got, ok := store.Read(ctx)
	require.True(t, ok)
	assert.Equal(t, token, got)

	gotProfile, ok := store.ReadProfile(ctx)
	require.True(t, ok)
	assert.Equal(t, profile, gotProfile)
}

func TestReadMalformedTreatedAsAbsent(t *testing.T) {
	store, kv := newStore(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, credstore.PrimaryKey, "garbage-not-a-token"))

	_, ok := store.Read(ctx)
	assert.False(t, ok)
}

func TestMigrateLegacy(t *testing.T) {
	ctx := context.Background()

	t.Run("moves legacy value to primary", func(t *testing.T) {
		store, kv := newStore(t)
		token := testutil.FreshToken("alice")
		require.NoError(t, kv.Set(ctx, credstore.LegacyKey, token))

		migrated, err := store.MigrateLegacy(ctx)
		require.NoError(t, err)
		assert.True(t, migrated)

		got, ok := store.Read(ctx)
		require.True(t, ok)
		assert.Equal(t, token, got)

		_, err = kv.Get(ctx, credstore.LegacyKey)
		assert.Error(t, err, "legacy key should be deleted")
	})

	t.Run("idempotent on second run", func(t *testing.T) {
		store, kv := newStore(t)
		token := testutil.FreshToken("alice")
		require.NoError(t, kv.Set(ctx, credstore.LegacyKey, token))

		migrated, err := store.MigrateLegacy(ctx)
		require.NoError(t, err)
		assert.True(t, migrated)

		migrated, err = store.MigrateLegacy(ctx)
		require.NoError(t, err)
		assert.False(t, migrated)

		got, ok := store.Read(ctx)
		require.True(t, ok)
		assert.Equal(t, token, got)
	})

	t.Run("primary wins over stale legacy", func(t *testing.T) {
		store, kv := newStore(t)
		primary := testutil.FreshToken("alice")
		stale := testutil.FreshToken("mallory")
		require.NoError(t, kv.Set(ctx, credstore.PrimaryKey, primary))
		require.NoError(t, kv.Set(ctx, credstore.LegacyKey, stale))

		migrated, err := store.MigrateLegacy(ctx)
		require.NoError(t, err)
		assert.False(t, migrated)

		got, ok := store.Read(ctx)
		require.True(t, ok)
		assert.Equal(t, primary, got)

		_, err = kv.Get(ctx, credstore.LegacyKey)
		assert.Error(t, err, "stale legacy copy should be dropped")
	})

	t.Run("no-op when both keys absent", func(t *testing.T) {
		store, _ := newStore(t)

		migrated, err := store.MigrateLegacy(ctx)
		require.NoError(t, err)
		assert.False(t, migrated)
	})
}

func TestClear(t *testing.T) {
	store, kv := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, testutil.FreshToken("alice"), domainauth.Profile{Username: "alice"}))
	require.NoError(t, kv.Set(ctx, credstore.LegacyKey, testutil.FreshToken("alice")))

	require.NoError(t, store.Clear(ctx))

	_, ok := store.Read(ctx)
	assert.False(t, ok)
	_, ok = store.ReadProfile(ctx)
	assert.False(t, ok)
	assert.Zero(t, kv.Len())

	// Redundant clear is not an error.
	require.NoError(t, store.Clear(ctx))
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	kv := memkv.New()
	store := credstore.New(credstore.Options{KV: kv, Now: func() time.Time { return now }})

	exp := now.Add(time.Hour)
	assert.False(t, store.IsExpired(testutil.MakeToken("alice", &exp)))

	past := now.Add(-time.Hour)
	assert.True(t, store.IsExpired(testutil.MakeToken("alice", &past)))

	// No expiry claim means the credential never expires.
	assert.False(t, store.IsExpired(testutil.MakeToken("alice", nil)))

	// Undecodable input fails closed.
	assert.True(t, store.IsExpired("garbage"))
	assert.True(t, store.IsExpired(""))
}

func TestPrefixIsolation(t *testing.T) {
	kv := memkv.New()
	ctx := context.Background()
	a := credstore.New(credstore.Options{KV: kv, Prefix: "device-a"})
	b := credstore.New(credstore.Options{KV: kv, Prefix: "device-b"})

	require.NoError(t, a.Write(ctx, testutil.FreshToken("alice"), domainauth.Profile{Username: "alice"}))

	_, ok := b.Read(ctx)
	assert.False(t, ok, "sessions must not observe each other's credentials")
}
