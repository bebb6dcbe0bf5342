package routes

// Package routes holds the single route-policy table shared by the edge
// access gate and the in-page route guard. Classification is a pure function
// of the path: it must never consult session state, so the edge layer (which
// cannot see session state) stays provably consistent with the in-page guard.

import "strings"

// Class is the policy category assigned to a path.
type Class int

const (
	// ClassPublic paths are reachable regardless of session state.
	ClassPublic Class = iota
	// ClassGuestEntry paths are the entry surfaces for signed-out users:
	// the welcome page and the guest-accessible content listing.
	ClassGuestEntry
	// ClassProtected paths require an authenticated session.
	ClassProtected
	// ClassRoot is the application's default landing path; policy differs
	// by session state.
	ClassRoot
)

// Well-known paths referenced by both gate layers.
const (
	PathRoot    = "/"
	PathWelcome = "/welcome"
	PathExplore = "/explore"
)

// adminPrefix is the administrative surface. It is the edge gate's entire
// allow-list: a strict subset of protected paths where a presence-only
// check is safe.
const adminPrefix = "/admin"

// publicPaths are informational surfaces reachable in any state.
var publicPaths = map[string]struct{}{
	"/about":   {},
	"/terms":   {},
	"/privacy": {},
}

// Classify returns the policy class for a path. The rule table is fixed
// configuration; both gate layers must read this same table.
func Classify(path string) Class {
	p := normalize(path)

	switch {
	case p == PathRoot:
		return ClassRoot
	case p == PathWelcome:
		return ClassGuestEntry
	case p == PathExplore || strings.HasPrefix(p, PathExplore+"/"):
		return ClassGuestEntry
	}

	if _, ok := publicPaths[p]; ok {
		return ClassPublic
	}

	return ClassProtected
}

// EdgeProtected reports whether the path is on the edge gate's allow-list of
// administrative surfaces. Everything it returns true for classifies as
// ClassProtected.
func EdgeProtected(path string) bool {
	p := normalize(path)
	return p == adminPrefix || strings.HasPrefix(p, adminPrefix+"/")
}

// Exempt reports whether the path is excluded from gate evaluation entirely:
// static assets, the JSON API, the login flow itself, health checks, and the
// realtime endpoint.
func Exempt(path string) bool {
	return strings.HasPrefix(path, "/static/") ||
		strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/auth/") ||
		path == "/healthz" ||
		path == "/realtime"
}

// normalize strips a trailing slash (except for the root path) so that
// "/explore/" and "/explore" classify identically.
func normalize(path string) string {
	if path == "" {
		return PathRoot
	}
	if path != PathRoot {
		path = strings.TrimSuffix(path, "/")
		if path == "" {
			return PathRoot
		}
	}
	return path
}
