package httpx

import (
	"context"

	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/session"
)

// runtimeKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same keys.
type runtimeKey struct{}

type snapshotKey struct{}

// SetRuntimeInContext returns a child context that carries the session runtime.
// If rt is nil, the original ctx is returned unchanged.
func SetRuntimeInContext(ctx context.Context, rt *session.Runtime) context.Context {
	if rt == nil {
		return ctx
	}
	return context.WithValue(ctx, runtimeKey{}, rt)
}

// RuntimeFromContext returns the session runtime from context and a boolean
// indicating presence.
func RuntimeFromContext(ctx context.Context) (*session.Runtime, bool) {
	if rt, ok := ctx.Value(runtimeKey{}).(*session.Runtime); ok && rt != nil {
		return rt, true
	}
	return nil, false
}

// SetSnapshotInContext returns a child context carrying the auth snapshot
// observed when the request was resolved.
func SetSnapshotInContext(ctx context.Context, snap domainauth.Snapshot) context.Context {
	return context.WithValue(ctx, snapshotKey{}, snap)
}

// SnapshotFromContext returns the auth snapshot from context. Requests that
// never passed through the session middleware read as Unauthenticated.
func SnapshotFromContext(ctx context.Context) domainauth.Snapshot {
	if snap, ok := ctx.Value(snapshotKey{}).(domainauth.Snapshot); ok {
		return snap
	}
	return domainauth.Snapshot{State: domainauth.StateUnauthenticated}
}
