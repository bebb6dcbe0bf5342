package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/ports"
	"github.com/driftline/driftline/internal/session"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions *session.Manager
	Identity ports.IdentityProvider
	Feed     ports.FeedLister
	// Optional: redirect-based OIDC flow (AUTH_MODE=oauth).
	Flow ports.AuthFlowProvider
	// Optional: audit trail read side for the admin API.
	Audit        AuditReader
	CookieDomain string
	IsDev        bool
	Logger       *slog.Logger
}

// NewRouter creates the fully-wired HTTP handler. Middleware order matters:
// the edge gate runs before session resolution so it only ever sees cookie
// presence, and the route guard runs after so it sees the decoded state.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Provider:     services.Identity,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
	}
	feedHandlers := &FeedHandlers{
		Feed:         services.Feed,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
	}
	pageHandlers := &PageHandlers{Logger: logger}

	// JSON API. Password login only exists when an identity provider is
	// configured; oauth deployments log in via the redirect flow.
	if services.Identity != nil {
		mux.Handle("POST /api/auth/login", http.HandlerFunc(authHandlers.Login))
	}
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(authHandlers.Logout))
	mux.Handle("GET /api/auth/status", http.HandlerFunc(authHandlers.Status))
	mux.Handle("GET /api/feed", RequireAuthenticated()(http.HandlerFunc(feedHandlers.List)))

	if services.Audit != nil {
		adminHandlers := &AdminHandlers{Audit: services.Audit, Logger: logger}
		mux.Handle("GET /api/admin/audit",
			RequireRole(domainauth.RoleAdmin)(http.HandlerFunc(adminHandlers.AuditTrail)))
	}

	// Redirect-based login flow
	if services.Flow != nil {
		oauthHandlers := &OAuthHandlers{
			Flow:         services.Flow,
			CookieDomain: services.CookieDomain,
			Logger:       logger,
		}
		mux.Handle("GET /auth/login", http.HandlerFunc(oauthHandlers.Begin))
		mux.Handle("GET /auth/callback", http.HandlerFunc(oauthHandlers.Callback))
	}

	// Pages
	mux.Handle("GET /{$}", http.HandlerFunc(pageHandlers.Home))
	mux.Handle("GET /welcome", http.HandlerFunc(pageHandlers.Welcome))
	mux.Handle("GET /explore", http.HandlerFunc(pageHandlers.Explore))
	mux.Handle("GET /explore/", http.HandlerFunc(pageHandlers.Explore))
	mux.Handle("GET /feed", http.HandlerFunc(pageHandlers.Feed))
	mux.Handle("GET /admin", http.HandlerFunc(pageHandlers.Admin))
	mux.Handle("GET /admin/", http.HandlerFunc(pageHandlers.Admin))
	mux.Handle("GET /about", http.HandlerFunc(pageHandlers.About))
	mux.Handle("GET /terms", http.HandlerFunc(pageHandlers.Terms))
	mux.Handle("GET /privacy", http.HandlerFunc(pageHandlers.Privacy))

	// Static assets at /static
	mux.Handle("GET /static/", staticAssets(services.IsDev, logger))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	// Routing layers, innermost first: the guard sees resolved state,
	// the edge gate sees only the raw request. Logging and Recover are
	// applied by the caller so they also cover anything mounted above
	// this router.
	var handler http.Handler = mux
	handler = RouteGuard()(handler)
	handler = SessionResolve(services.Sessions, services.CookieDomain)(handler)
	handler = EdgeGate()(handler)
	return handler
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
