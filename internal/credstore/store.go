package credstore

// Package credstore owns the persisted credential and profile snapshot: the
// single source of truth shared (via its cookie mirror) with the edge layer.
// It owns the one-time migration from the legacy storage key and exposes
// expiry inspection. All decode and storage failures are absorbed here and
// normalized to "absent"; they never propagate to rendering code.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/ports"
)

// Storage key names. The primary key name doubles as the credential cookie
// name read by the edge gate; the legacy key is retained only for one-time
// migration.
const (
	PrimaryKey = "driftline_token"
	LegacyKey  = "df_auth_token"
	ProfileKey = "driftline_profile"
)

// Store reads and writes the persisted credential and profile snapshot for
// one browser session. Keys are namespaced by the session's device ID so
// concurrent sessions never observe each other's writes.
type Store struct {
	kv     ports.KV
	prefix string
	logger *slog.Logger

	// mu guards the transient profile cache only; the KV backing is the
	// durable source of truth.
	mu     sync.Mutex
	cached *domainauth.Profile
	now    func() time.Time
}

// Options groups constructor parameters for Store.
type Options struct {
	KV     ports.KV
	Prefix string
	Logger *slog.Logger
	Now    func() time.Time // test seam; defaults to time.Now
}

// New constructs a credential store over the given KV backing.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{kv: opts.KV, prefix: opts.Prefix, logger: logger, now: now}
}

func (s *Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + ":" + name
}

// Read returns the current credential from the primary key. Absent,
// unreadable, or structurally unparseable values all report ok=false; a
// torn or corrupt read is treated as absence, never as a forged identity.
func (s *Store) Read(ctx context.Context) (string, bool) {
	raw, err := s.kv.Get(ctx, s.key(PrimaryKey))
	if err != nil {
		if !errors.Is(err, ports.ErrKeyNotFound) {
			s.logger.WarnContext(ctx, "credential read failed", "error", err)
		}
		return "", false
	}
	if _, err := domainauth.DecodeCredential(raw); err != nil {
		return "", false
	}
	return raw, true
}

// MigrateLegacy copies a legacy-key credential to the primary key and
// deletes the legacy key. Idempotent and safe to call unconditionally on
// every startup. An existing primary value always wins: migration never
// overwrites it.
func (s *Store) MigrateLegacy(ctx context.Context) (migrated bool, err error) {
	if _, err := s.kv.Get(ctx, s.key(PrimaryKey)); err == nil {
		// Primary wins; drop any stale legacy copy so at most one key
		// is ever populated after migration.
		if delErr := s.kv.Delete(ctx, s.key(LegacyKey)); delErr != nil {
			return false, fmt.Errorf("delete legacy key: %w", delErr)
		}
		return false, nil
	} else if !errors.Is(err, ports.ErrKeyNotFound) {
		return false, fmt.Errorf("read primary key: %w", err)
	}

	legacy, err := s.kv.Get(ctx, s.key(LegacyKey))
	if err != nil {
		if errors.Is(err, ports.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read legacy key: %w", err)
	}

	if err := s.kv.Set(ctx, s.key(PrimaryKey), legacy); err != nil {
		return false, fmt.Errorf("copy legacy credential: %w", err)
	}
	if err := s.kv.Delete(ctx, s.key(LegacyKey)); err != nil {
		return false, fmt.Errorf("delete legacy key: %w", err)
	}
	return true, nil
}

// Write persists credential and profile atomically from the caller's
// perspective: a concurrent reader in the same context never observes one
// without the other.
func (s *Store) Write(ctx context.Context, credential string, profile domainauth.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	pairs := map[string]string{
		s.key(PrimaryKey): credential,
		s.key(ProfileKey): string(data),
	}
	if err := s.kv.SetMulti(ctx, pairs); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}

	s.mu.Lock()
	p := profile
	s.cached = &p
	s.mu.Unlock()
	return nil
}

// ReadProfile returns the cached profile snapshot if present. Snapshot
// absence does not imply unauthenticated.
func (s *Store) ReadProfile(ctx context.Context) (domainauth.Profile, bool) {
	s.mu.Lock()
	if s.cached != nil {
		p := *s.cached
		s.mu.Unlock()
		return p, true
	}
	s.mu.Unlock()

	raw, err := s.kv.Get(ctx, s.key(ProfileKey))
	if err != nil {
		return domainauth.Profile{}, false
	}
	var profile domainauth.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		s.logger.WarnContext(ctx, "profile snapshot unreadable, ignoring", "error", err)
		return domainauth.Profile{}, false
	}

	s.mu.Lock()
	s.cached = &profile
	s.mu.Unlock()
	return profile, true
}

// Clear deletes credential, profile, and legacy key, and drops the transient
// cache. Callable redundantly: an already-cleared store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()

	err := s.kv.Delete(ctx, s.key(PrimaryKey), s.key(ProfileKey), s.key(LegacyKey))
	if err != nil {
		return fmt.Errorf("clear credential storage: %w", err)
	}
	return nil
}

// IsExpired reports whether a raw credential is expired or undecodable.
// A decodable credential without an expiry claim never expires; a
// credential that fails decoding counts as expired.
func (s *Store) IsExpired(raw string) bool {
	claims, err := domainauth.DecodeCredential(raw)
	if err != nil {
		return true
	}
	return claims.Expired(s.now())
}
