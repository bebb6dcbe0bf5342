package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/driftline/driftline/internal/credstore"
	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/ports"
	"github.com/driftline/driftline/internal/realtime"
)

// Runtime bundles the session machine and its realtime binding for one
// browser session. It is the Go rendering of the original page runtime:
// created on attach, resolved exactly once, torn down on eviction.
type Runtime struct {
	ID      string
	Machine *Machine

	binding     *realtime.Binding // nil when realtime is not configured
	unsubscribe func()
	closeOnce   sync.Once

	// lastSeen is guarded by the owning Manager's mutex and drives idle
	// eviction.
	lastSeen time.Time
}

// Connected reports the realtime connection state; false when realtime is
// not configured.
func (r *Runtime) Connected() bool {
	if r.binding == nil {
		return false
	}
	return r.binding.Connected()
}

// Close releases the runtime's resources on every exit path: the machine
// subscription and the realtime connection. Idempotent.
func (r *Runtime) Close() {
	r.closeOnce.Do(func() {
		if r.unsubscribe != nil {
			r.unsubscribe()
		}
		if r.binding != nil {
			r.binding.Close()
		}
	})
}

// RealtimeConfig points the manager at the external realtime endpoint. An
// empty endpoint disables bindings.
type RealtimeConfig struct {
	Endpoint string
	Origin   string
	Param    string
}

// ManagerOptions groups constructor dependencies for Manager.
type ManagerOptions struct {
	KV       ports.KV
	Audit    ports.AuditStore // optional
	Realtime RealtimeConfig
	Logger   *slog.Logger
	Now      func() time.Time // test seam; defaults to time.Now

	// IdleTTL evicts runtimes that have not been attached for this long,
	// closing their realtime sockets. Zero disables idle eviction.
	IdleTTL time.Duration

	// SweepInterval is the janitor period. Defaults to a quarter of
	// IdleTTL.
	SweepInterval time.Duration
}

// Manager owns the session runtimes, keyed by the device cookie. Runtimes
// are created lazily on first attach and resolved exactly once.
type Manager struct {
	kv       ports.KV
	audit    ports.AuditStore
	realtime RealtimeConfig
	logger   *slog.Logger
	now      func() time.Time
	idleTTL  time.Duration

	mu       sync.Mutex
	runtimes map[string]*Runtime

	stop     chan struct{}
	stopOnce sync.Once
}

// NewManager constructs an empty runtime registry. When IdleTTL is set, a
// janitor goroutine evicts runtimes no request has touched within the TTL;
// it runs until Shutdown.
func NewManager(opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	m := &Manager{
		kv:       opts.KV,
		audit:    opts.Audit,
		realtime: opts.Realtime,
		logger:   logger,
		now:      now,
		idleTTL:  opts.IdleTTL,
		runtimes: make(map[string]*Runtime),
		stop:     make(chan struct{}),
	}
	if m.idleTTL > 0 {
		interval := opts.SweepInterval
		if interval <= 0 {
			interval = m.idleTTL / 4
		}
		go m.janitor(interval)
	}
	return m
}

// Attach returns the runtime for the given device ID, creating and
// resolving it on first sight.
func (m *Manager) Attach(ctx context.Context, deviceID string) *Runtime {
	m.mu.Lock()
	if rt, ok := m.runtimes[deviceID]; ok {
		rt.lastSeen = m.now()
		m.mu.Unlock()
		return rt
	}
	rt := m.build(deviceID)
	rt.lastSeen = m.now()
	m.runtimes[deviceID] = rt
	m.mu.Unlock()

	m.start(ctx, rt)
	return rt
}

// Lookup returns an existing runtime without creating one.
func (m *Manager) Lookup(deviceID string) (*Runtime, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.runtimes[deviceID]
	return rt, ok
}

// Evict closes and forgets a runtime. Safe for unknown IDs.
func (m *Manager) Evict(deviceID string) {
	m.mu.Lock()
	rt, ok := m.runtimes[deviceID]
	delete(m.runtimes, deviceID)
	m.mu.Unlock()
	if ok {
		rt.Close()
	}
}

// Shutdown stops the janitor and closes every runtime. Used on graceful
// server shutdown so no realtime socket outlives the process intentionally.
func (m *Manager) Shutdown() {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mu.Lock()
	runtimes := make([]*Runtime, 0, len(m.runtimes))
	for _, rt := range m.runtimes {
		runtimes = append(runtimes, rt)
	}
	m.runtimes = make(map[string]*Runtime)
	m.mu.Unlock()

	for _, rt := range runtimes {
		rt.Close()
	}
}

// janitor periodically evicts idle runtimes. Without it an anonymous
// client minting fresh device cookies would grow the registry, and its
// realtime sockets, without bound.
func (m *Manager) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

// evictIdle closes and forgets every runtime whose last attach is older
// than the idle TTL. Closing happens outside the registry lock.
func (m *Manager) evictIdle() {
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	var expired []*Runtime
	for id, rt := range m.runtimes {
		if rt.lastSeen.Before(cutoff) {
			delete(m.runtimes, id)
			expired = append(expired, rt)
		}
	}
	m.mu.Unlock()

	for _, rt := range expired {
		rt.Close()
	}
	if len(expired) > 0 {
		m.logger.Debug("evicted idle session runtimes", "count", len(expired))
	}
}

func (m *Manager) build(deviceID string) *Runtime {
	store := credstore.New(credstore.Options{
		KV:     m.kv,
		Prefix: deviceID,
		Logger: m.logger,
		Now:    m.now,
	})
	machine := NewMachine(MachineOptions{
		Store:  store,
		Audit:  m.audit,
		Logger: m.logger,
		Now:    m.now,
	})

	rt := &Runtime{ID: deviceID, Machine: machine}
	if m.realtime.Endpoint != "" {
		rt.binding = realtime.New(realtime.Options{
			Endpoint: m.realtime.Endpoint,
			Origin:   m.realtime.Origin,
			Param:    m.realtime.Param,
			Logger:   m.logger,
		})
	}
	return rt
}

// start resolves the machine once and, when realtime is configured, opens
// the binding with the resolved credential and re-binds it on every
// subsequent identity change.
func (m *Manager) start(ctx context.Context, rt *Runtime) {
	rt.Machine.Resolve(ctx)

	if rt.binding == nil {
		return
	}

	credential, _ := rt.Machine.Credential(ctx)
	rt.binding.Start(credential)

	binding := rt.binding
	machine := rt.Machine
	rt.unsubscribe = machine.Subscribe(func(snap domainauth.Snapshot) {
		if snap.State == domainauth.StateLoading {
			return
		}
		// The store read is best-effort and does not touch the machine
		// lock; logout leaves no credential, which reopens the
		// connection as a guest.
		cred, _ := machine.Credential(context.Background())
		binding.SetCredential(cred)
	})
}
