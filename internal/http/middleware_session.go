package httpx

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/driftline/driftline/internal/session"
)

// SessionResolve returns the middleware that attaches each request to its
// session runtime. The device cookie identifies the browser; the runtime
// owns the session machine and the realtime binding for that device.
// Attach resolves the machine on first touch, so by the time handlers run
// the snapshot has normally left Loading.
func SessionResolve(mgr *session.Manager, cookieDomain string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Static assets and health checks don't need a session.
			// API and auth-flow paths are exempt from routing, not
			// from sessions.
			if sessionless(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			deviceID := deviceIDFromRequest(r)
			if deviceID == "" {
				deviceID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     DeviceCookie,
					Value:    deviceID,
					Path:     "/",
					Domain:   cookieDomain,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			rt := mgr.Attach(r.Context(), deviceID)
			ctx := SetRuntimeInContext(r.Context(), rt)
			ctx = SetSnapshotInContext(ctx, rt.Machine.State())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deviceIDFromRequest(r *http.Request) string {
	c, err := r.Cookie(DeviceCookie)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

func sessionless(path string) bool {
	return strings.HasPrefix(path, "/static/") || path == "/healthz"
}
