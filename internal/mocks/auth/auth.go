package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*FakeIdentityProvider)(nil)
	_ ports.AuditStore       = (*MemoryAuditStore)(nil)
	_ ports.FeedLister       = (*FakeFeedLister)(nil)
)

// FakeIdentityProvider simulates an identity service for tests.
type FakeIdentityProvider struct {
	LoginFunc func(ctx context.Context, creds ports.Credentials) (ports.LoginResult, error)

	// Defaults used when LoginFunc is nil.
	Credential string
	Profile    domainauth.Profile
	Err        error

	mu    sync.Mutex
	calls []ports.Credentials
}

func (f *FakeIdentityProvider) Login(ctx context.Context, creds ports.Credentials) (ports.LoginResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, creds)
	f.mu.Unlock()

	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, creds)
	}
	if f.Err != nil {
		return ports.LoginResult{}, f.Err
	}
	return ports.LoginResult{Credential: f.Credential, Profile: f.Profile}, nil
}

// Calls returns the credentials passed to each Login invocation.
func (f *FakeIdentityProvider) Calls() []ports.Credentials {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ports.Credentials, len(f.calls))
	copy(out, f.calls)
	return out
}

// MemoryAuditStore records audit events in memory.
type MemoryAuditStore struct {
	mu     sync.Mutex
	events []ports.AuditEvent
	Err    error // returned by Record when set
}

func (s *MemoryAuditStore) Record(_ context.Context, event ports.AuditEvent) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of the recorded events in order.
func (s *MemoryAuditStore) Events() []ports.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.AuditEvent, len(s.events))
	copy(out, s.events)
	return out
}

// ByKind returns recorded events of one kind, in order.
func (s *MemoryAuditStore) ByKind(kind ports.AuditKind) []ports.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ports.AuditEvent
	for _, ev := range s.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// FakeFeedLister returns canned posts or a canned error.
type FakeFeedLister struct {
	Posts []ports.Post
	Err   error

	mu          sync.Mutex
	credentials []string
}

func (f *FakeFeedLister) ListFeed(_ context.Context, credential string) ([]ports.Post, error) {
	f.mu.Lock()
	f.credentials = append(f.credentials, credential)
	f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Posts, nil
}

// Credentials returns the credential passed to each ListFeed call.
func (f *FakeFeedLister) Credentials() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.credentials))
	copy(out, f.credentials)
	return out
}
