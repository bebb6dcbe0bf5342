package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/ports"
)

// FeedHandlers serves content fetched from the external content API on
// behalf of the session's credential.
type FeedHandlers struct {
	Feed         ports.FeedLister
	CookieDomain string
	Logger       *slog.Logger
}

func (h *FeedHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// List handles the feed endpoint.
// GET /api/feed.
//
// A 401 from the content API means the credential is no longer honored:
// the session is force-logged-out through the single teardown path and
// the client told to re-authenticate. A 403 is a permission notice only;
// the session and credential stay intact.
func (h *FeedHandlers) List(w http.ResponseWriter, r *http.Request) {
	rt, ok := RuntimeFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	credential, _ := rt.Machine.Credential(r.Context())
	posts, err := h.Feed.ListFeed(r.Context(), credential)
	if err != nil {
		switch {
		case errors.Is(err, domainauth.ErrUnauthorized):
			rt.Machine.ForceLogout(r.Context(), "content api rejected credential")
			clearAuthCookies(w, h.CookieDomain)
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "session_expired",
				Err:     errors.New("session is no longer valid"),
			})
		case errors.Is(err, domainauth.ErrForbidden):
			WriteError(w, ErrorParams{
				Code:    http.StatusForbidden,
				ErrCode: "insufficient_permissions",
				Err:     errors.New("you do not have access to this content"),
			})
		default:
			h.logger().Error("feed fetch failed", slog.Any("error", err))
			WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "feed_unavailable", Err: err})
		}
		return
	}

	if posts == nil {
		posts = []ports.Post{}
	}
	WriteJSON(w, http.StatusOK, posts)
}
