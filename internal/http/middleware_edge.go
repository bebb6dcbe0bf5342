package httpx

import (
	"net/http"

	"github.com/driftline/driftline/internal/credstore"
	"github.com/driftline/driftline/internal/routes"
)

// Cookie names used by the edge gate and the auth handlers. The credential
// cookie names mirror the persisted-credential keys so the edge can judge
// presence without a store lookup.
const (
	CredentialCookie       = credstore.PrimaryKey
	LegacyCredentialCookie = credstore.LegacyKey
	DeviceCookie           = "driftline_device"
)

// EdgeGate returns the outermost routing middleware. It sees the raw
// request before any session resolution and applies the coarse policy on
// cookie presence alone: it never decodes the credential, so a stale or
// malformed cookie passes the edge and is caught by the in-page guard.
//
// Asset, API, health, and realtime paths are exempt so the gate cannot
// break them.
func EdgeGate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if routes.Exempt(path) {
				next.ServeHTTP(w, r)
				return
			}

			hasCredential := hasCredentialCookie(r)

			// A cookie-less request headed for protected territory goes
			// to the guest entry page.
			if !hasCredential && routes.EdgeProtected(path) {
				redirectSeeOther(w, r, routes.PathWelcome)
				return
			}

			// A request with a cookie has no business on the welcome
			// page; the in-page guard re-checks once the credential is
			// actually decoded.
			if hasCredential && routes.Classify(path) == routes.ClassGuestEntry && path == routes.PathWelcome {
				redirectSeeOther(w, r, routes.PathRoot)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func hasCredentialCookie(r *http.Request) bool {
	for _, name := range []string{CredentialCookie, LegacyCredentialCookie} {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return true
		}
	}
	return false
}

// redirectSeeOther issues the replace-style redirect both routing layers
// use, so the abandoned URL never enters the history.
func redirectSeeOther(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}
