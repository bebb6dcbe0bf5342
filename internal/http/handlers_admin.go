package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/driftline/driftline/internal/ports"
)

// AuditReader is the read side of the audit trail, used by the admin API.
type AuditReader interface {
	RecentForSubject(ctx context.Context, subject string, limit int) ([]ports.AuditEvent, error)
}

// AdminHandlers provides admin-only API endpoints.
type AdminHandlers struct {
	Audit  AuditReader
	Logger *slog.Logger
}

func (h *AdminHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// AuditTrail returns the recent auth audit events for a subject.
// GET /api/admin/audit?subject=<subject>&limit=<n>.
func (h *AdminHandlers) AuditTrail(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	if subject == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_subject",
			Err:     errors.New("subject parameter is required"),
		})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	events, err := h.Audit.RecentForSubject(r.Context(), subject, limit)
	if err != nil {
		h.logger().Error("audit query failed", slog.String("subject", subject), slog.Any("error", err))
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "audit_query_failed", Err: err})
		return
	}

	if events == nil {
		events = []ports.AuditEvent{}
	}
	WriteJSON(w, http.StatusOK, events)
}
