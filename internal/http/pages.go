package httpx

import (
	"html/template"
	"log/slog"
	"net/http"
)

// pageTemplate is the shared shell for server-rendered pages. The real
// interface lives in the client bundle; the shell carries enough state for
// it to boot without an extra status round-trip.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} · Driftline</title>
<script src="/static/js/app.js" defer></script>
</head>
<body data-auth-state="{{.AuthState}}"{{if .Username}} data-username="{{.Username}}"{{end}}>
<main id="app" data-page="{{.Page}}"></main>
</body>
</html>
`))

type pageData struct {
	Title     string
	Page      string
	AuthState string
	Username  string
}

// PageHandlers renders the HTML shells for the application's page routes.
type PageHandlers struct {
	Logger *slog.Logger
}

func (h *PageHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *PageHandlers) render(w http.ResponseWriter, r *http.Request, title, page string) {
	snap := SnapshotFromContext(r.Context())
	data := pageData{
		Title:     title,
		Page:      page,
		AuthState: snap.State.String(),
	}
	if snap.Authenticated() && snap.Profile != nil {
		data.Username = snap.Profile.Username
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		h.logger().Error("render page failed", slog.String("page", page), slog.Any("error", err))
	}
}

func (h *PageHandlers) Home(w http.ResponseWriter, r *http.Request) {
	// The guard already redirected unauthenticated sessions; anything
	// that reaches here renders the signed-in home.
	h.render(w, r, "Home", "home")
}

func (h *PageHandlers) Welcome(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Welcome", "welcome")
}

func (h *PageHandlers) Explore(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Explore", "explore")
}

func (h *PageHandlers) Feed(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Feed", "feed")
}

func (h *PageHandlers) Admin(w http.ResponseWriter, r *http.Request) {
	snap := SnapshotFromContext(r.Context())
	if snap.Authenticated() && snap.Profile != nil && !snap.Profile.IsAdmin() {
		// Role denial is a notice, never a logout.
		w.WriteHeader(http.StatusForbidden)
		h.render(w, r, "Access Denied", "access-denied")
		return
	}
	h.render(w, r, "Admin", "admin")
}

func (h *PageHandlers) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "About", "about")
}

func (h *PageHandlers) Terms(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Terms", "terms")
}

func (h *PageHandlers) Privacy(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Privacy", "privacy")
}
