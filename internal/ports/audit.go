package ports

import (
	"context"
	"time"
)

// AuditKind labels a session lifecycle event.
type AuditKind string

const (
	AuditLogin        AuditKind = "login"
	AuditLogout       AuditKind = "logout"
	AuditForcedLogout AuditKind = "forced_logout"
	AuditMigration    AuditKind = "legacy_migration"
)

// AuditEvent is one recorded session transition. Subject may be empty when
// the actor could not be determined (e.g. clearing an already-absent
// credential).
type AuditEvent struct {
	ID      string    `json:"id"`
	Kind    AuditKind `json:"kind"`
	Subject string    `json:"subject"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"at"`
}

// AuditStore records session lifecycle events. Recording is best-effort:
// callers log failures and continue, a transition never blocks on the trail.
type AuditStore interface {
	Record(ctx context.Context, event AuditEvent) error
}
