package postgres

// Package postgres persists the authentication audit trail. Every
// login, logout, forced logout, and legacy-key migration is recorded so
// operators can reconstruct why a session ended.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/driftline/driftline/internal/ports"
)

// AuditStore implements ports.AuditStore on top of PostgreSQL.
type AuditStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewAuditStore constructs an AuditStore.
func NewAuditStore(db *sql.DB, logger *slog.Logger) *AuditStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditStore{db: db, logger: logger}
}

var _ ports.AuditStore = (*AuditStore)(nil)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS auth_audit (
	id         UUID PRIMARY KEY,
	kind       TEXT NOT NULL,
	subject    TEXT NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS auth_audit_subject_idx ON auth_audit (subject, created_at DESC);
`

// EnsureSchema creates the audit table if it does not exist.
func (s *AuditStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

// Record inserts one audit event. Replayed events (same ID) are ignored so
// retries stay idempotent.
func (s *AuditStore) Record(ctx context.Context, event ports.AuditEvent) error {
	const q = `INSERT INTO auth_audit (id, kind, subject, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := s.db.ExecContext(ctx, q,
		event.ID, string(event.Kind), event.Subject, event.Reason, event.At)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Debug("duplicate audit event ignored", "id", event.ID)
			return nil
		}
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}

// RecentForSubject returns the most recent audit events for a subject,
// newest first.
func (s *AuditStore) RecentForSubject(ctx context.Context, subject string, limit int) ([]ports.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT id, kind, subject, reason, created_at
		FROM auth_audit WHERE subject = $1
		ORDER BY created_at DESC LIMIT $2`
	rows, err := s.db.QueryContext(ctx, q, subject, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []ports.AuditEvent
	for rows.Next() {
		var ev ports.AuditEvent
		var kind string
		if err := rows.Scan(&ev.ID, &kind, &ev.Subject, &ev.Reason, &ev.At); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		ev.Kind = ports.AuditKind(kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
