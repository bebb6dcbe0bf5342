package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"regexp"

	driftline "github.com/driftline/driftline"
)

// staticAssets serves /static/* assets.
// In dev mode (isDev=true), serves from disk for hot reloading.
// In production mode (isDev=false), serves from embedded FS.
func staticAssets(isDev bool, logger *slog.Logger) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	}

	staticSub, err := fs.Sub(driftline.StaticFS, "web/static")
	if err != nil {
		logger.Error("create static asset sub-filesystem failed", slog.Any("error", err))
		// Fallback to disk serving if embed fails
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
}

// staticWithCacheHeaders wraps a static file handler to add appropriate
// cache headers. Content-hashed filenames (e.g. app.abc12345.js) are
// immutable; everything else revalidates on each load.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	hashedFilePattern := regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		handler.ServeHTTP(w, r)
	})
}
