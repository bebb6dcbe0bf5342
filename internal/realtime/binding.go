package realtime

// Package realtime maintains the persistent connection whose identity
// tracks the current credential. A credential change is handled by tearing
// the connection down and reopening it, never by live-patching; teardown is
// guaranteed on every exit path so sockets don't leak across navigations.

import (
	"log/slog"
	"net/url"
	"sync"

	"golang.org/x/net/websocket"
)

// Binding owns one persistent connection, parameterized by the current
// credential carried as a handshake query parameter. Connect and disconnect
// happen on their own goroutine and never block navigation decisions.
type Binding struct {
	endpoint string // ws:// or wss:// URL of the realtime endpoint
	origin   string
	param    string // handshake query parameter name
	logger   *slog.Logger

	mu         sync.Mutex
	credential string
	started    bool
	closed     bool
	connected  bool
	conn       *websocket.Conn
	// gen invalidates in-flight dials and read loops from a previous
	// credential. A goroutine that observes a newer generation discards
	// its connection instead of publishing it.
	gen int
}

// Options groups constructor parameters for Binding.
type Options struct {
	Endpoint string
	Origin   string
	Param    string // defaults to "token"
	Logger   *slog.Logger
}

// New constructs an unstarted binding.
func New(opts Options) *Binding {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	param := opts.Param
	if param == "" {
		param = "token"
	}
	return &Binding{
		endpoint: opts.Endpoint,
		origin:   opts.Origin,
		param:    param,
		logger:   logger,
	}
}

// Start opens the connection with the given credential, which may be empty
// (a guest connection). Calling Start more than once is a no-op.
func (b *Binding) Start(credential string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started || b.closed {
		return
	}
	b.started = true
	b.credential = credential
	b.gen++
	go b.connect(b.gen, credential)
}

// SetCredential reacts to an identity change: if the credential differs
// from the one the current connection was opened with, the connection is
// torn down and reopened with the new credential.
func (b *Binding) SetCredential(credential string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || !b.started || credential == b.credential {
		return
	}
	b.credential = credential
	b.gen++
	b.teardownLocked()
	go b.connect(b.gen, credential)
}

// Connected reports the current connection state.
func (b *Binding) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

// Close tears the connection down permanently. Idempotent; used on session
// eviction and shutdown.
func (b *Binding) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.gen++
	b.teardownLocked()
}

func (b *Binding) teardownLocked() {
	if b.conn != nil {
		if err := b.conn.Close(); err != nil {
			b.logger.Debug("realtime connection close", "error", err)
		}
		b.conn = nil
	}
	b.connected = false
}

func (b *Binding) connect(gen int, credential string) {
	target, err := b.dialURL(credential)
	if err != nil {
		b.logger.Warn("realtime endpoint URL invalid", "error", err)
		return
	}

	conn, err := websocket.Dial(target, "", b.origin)

	b.mu.Lock()
	if gen != b.gen || b.closed {
		// Superseded while dialing; discard whatever we got.
		b.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		b.connected = false
		b.mu.Unlock()
		b.logger.Warn("realtime connect failed", "error", err)
		return
	}
	b.conn = conn
	b.connected = true
	b.mu.Unlock()

	b.readLoop(gen, conn)
}

// readLoop drains inbound frames until the server closes or the connection
// is torn down. Payloads beyond the connect/disconnect signal are ignored
// here; the connection state is the only thing the session core reacts to.
func (b *Binding) readLoop(gen int, conn *websocket.Conn) {
	for {
		var message string
		if err := websocket.Message.Receive(conn, &message); err != nil {
			break
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return
	}
	b.connected = false
	if b.conn == conn {
		_ = conn.Close()
		b.conn = nil
	}
}

func (b *Binding) dialURL(credential string) (string, error) {
	u, err := url.Parse(b.endpoint)
	if err != nil {
		return "", err
	}
	if credential != "" {
		q := u.Query()
		q.Set(b.param, credential)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
