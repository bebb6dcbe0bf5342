package httpx

import (
	"net/http"

	"github.com/driftline/driftline/internal/routes"
)

// RouteGuard returns the fine-grained routing middleware. It runs after
// session resolution, so unlike the edge gate it judges the decoded
// credential state, not cookie presence. The guard and the edge share one
// policy table; the edge only ever sends requests here that the guard
// would also accept or redirect consistently, which is what keeps the two
// layers from bouncing a request between them.
func RouteGuard() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if routes.Exempt(path) {
				next.ServeHTTP(w, r)
				return
			}

			snap := SnapshotFromContext(r.Context())
			decision := routes.Decide(snap.State, path)
			switch decision.Action {
			case routes.ActionRedirect:
				redirectSeeOther(w, r, decision.Target)
			case routes.ActionDefer:
				// Still resolving: render nothing route-specific. The
				// page shell shows its loading state and the client
				// re-checks via /api/auth/status.
				next.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
