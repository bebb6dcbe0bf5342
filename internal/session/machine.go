package session

// Package session owns the in-page authentication state machine. The
// machine is an explicit, owned state container with subscribe/notify: the
// single-writer rule is that Resolve, Login, and Logout are the only
// mutators, and subscribers observe transitions in the order they were
// produced.

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/driftline/driftline/internal/credstore"
	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/ports"
)

// Subscriber receives session snapshots on every transition. Callbacks run
// synchronously under the machine lock to guarantee ordering; they must not
// re-enter the machine and should hand real work to their own goroutine.
type Subscriber func(domainauth.Snapshot)

// Machine derives loading | authenticated | unauthenticated from the
// credential store and owns the side effects of login and logout.
type Machine struct {
	store  *credstore.Store
	audit  ports.AuditStore
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	state    domainauth.State
	profile  *domainauth.Profile
	resolved bool
	subs     map[int]Subscriber
	nextSub  int
}

// MachineOptions groups constructor dependencies for Machine.
type MachineOptions struct {
	Store  *credstore.Store
	Audit  ports.AuditStore // optional
	Logger *slog.Logger
	Now    func() time.Time // test seam; defaults to time.Now
}

// NewMachine constructs a machine in the Loading state.
func NewMachine(opts MachineOptions) *Machine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Machine{
		store:  opts.Store,
		audit:  opts.Audit,
		logger: logger,
		now:    now,
		state:  domainauth.StateLoading,
		subs:   make(map[int]Subscriber),
	}
}

// State returns the current snapshot.
func (m *Machine) State() domainauth.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers a subscriber and returns its unsubscribe function.
// The subscriber immediately receives the current snapshot so late joiners
// don't miss the resolved state.
func (m *Machine) Subscribe(fn Subscriber) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	snap := m.snapshotLocked()
	fn(snap)
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Credential returns the current raw credential, best-effort. Used by the
// realtime binding for its handshake parameter.
func (m *Machine) Credential(ctx context.Context) (string, bool) {
	return m.store.Read(ctx)
}

// Resolve performs the one-time initial session resolution: legacy
// migration, credential read, expiry check. It runs at most once per
// machine lifetime; a login or logout that lands first wins and makes
// Resolve a no-op, so the machine never re-enters Loading.
func (m *Machine) Resolve(ctx context.Context) domainauth.Snapshot {
	m.mu.Lock()
	if m.resolved {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap
	}
	m.mu.Unlock()

	migrated, err := m.store.MigrateLegacy(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "legacy credential migration failed", "error", err)
	}

	raw, ok := m.store.Read(ctx)
	valid := ok && !m.store.IsExpired(raw)

	var profile domainauth.Profile
	if valid {
		profile = m.profileFor(ctx, raw)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resolved {
		// A login/logout raced the resolution; its outcome stands.
		return m.snapshotLocked()
	}
	m.resolved = true
	if valid {
		m.state = domainauth.StateAuthenticated
		m.profile = &profile
	} else {
		m.state = domainauth.StateUnauthenticated
		m.profile = nil
	}
	if migrated {
		m.record(ctx, ports.AuditMigration, subjectOf(raw), "legacy key migrated")
	}
	m.notifyLocked()
	return m.snapshotLocked()
}

// Login persists the credential and profile, then transitions to
// Authenticated. Downstream subscribers (route guard, realtime binding)
// re-evaluate on the notification.
func (m *Machine) Login(ctx context.Context, credential string, profile domainauth.Profile) error {
	if err := m.store.Write(ctx, credential, profile); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolved = true
	m.state = domainauth.StateAuthenticated
	p := profile
	m.profile = &p
	m.record(ctx, ports.AuditLogin, subjectOf(credential), "")
	m.notifyLocked()
	return nil
}

// Logout clears storage and transitions to Unauthenticated, regardless of
// prior state. Safe to call while already unauthenticated (the storage
// clear still runs) and while loading (the terminal state is still
// Unauthenticated, never Loading).
func (m *Machine) Logout(ctx context.Context) {
	m.logout(ctx, ports.AuditLogout, "")
}

// ForceLogout is the single path for collaborator APIs reporting a 401 or
// expired-session condition. The redirect that follows is the route guard's
// normal Unauthenticated handling, not a separate redirect path.
func (m *Machine) ForceLogout(ctx context.Context, reason string) {
	m.logout(ctx, ports.AuditForcedLogout, reason)
}

func (m *Machine) logout(ctx context.Context, kind ports.AuditKind, reason string) {
	subject := ""
	if raw, ok := m.store.Read(ctx); ok {
		subject = subjectOf(raw)
	}
	if err := m.store.Clear(ctx); err != nil {
		m.logger.WarnContext(ctx, "credential clear failed", "error", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolved = true
	m.state = domainauth.StateUnauthenticated
	m.profile = nil
	m.record(ctx, kind, subject, reason)
	m.notifyLocked()
}

// profileFor prefers the stored snapshot and falls back to a minimal
// profile derived from the decoded subject when the snapshot is missing.
func (m *Machine) profileFor(ctx context.Context, raw string) domainauth.Profile {
	if profile, ok := m.store.ReadProfile(ctx); ok {
		return profile
	}
	claims, err := domainauth.DecodeCredential(raw)
	if err != nil {
		return domainauth.Profile{Role: domainauth.RoleUser, IsActive: true}
	}
	return domainauth.Profile{
		Username: claims.Subject,
		Role:     domainauth.RoleUser,
		IsActive: true,
	}
}

func (m *Machine) snapshotLocked() domainauth.Snapshot {
	snap := domainauth.Snapshot{State: m.state}
	if m.profile != nil {
		p := *m.profile
		snap.Profile = &p
	}
	return snap
}

func (m *Machine) notifyLocked() {
	snap := m.snapshotLocked()
	for _, fn := range m.subs {
		fn(snap)
	}
}

func (m *Machine) record(ctx context.Context, kind ports.AuditKind, subject, reason string) {
	if m.audit == nil {
		return
	}
	event := ports.AuditEvent{
		ID:      uuid.NewString(),
		Kind:    kind,
		Subject: subject,
		Reason:  reason,
		At:      m.now(),
	}
	if err := m.audit.Record(ctx, event); err != nil {
		m.logger.WarnContext(ctx, "audit record failed", "kind", string(kind), "error", err)
	}
}

func subjectOf(raw string) string {
	claims, err := domainauth.DecodeCredential(raw)
	if err != nil {
		return ""
	}
	return claims.Subject
}
