// Package driftline provides embedded assets for production builds.
package driftline

import "embed"

// Embedded assets for production builds.
// In dev mode (IsDev=true), assets are loaded from disk for hot reloading.
// In production mode (IsDev=false), assets are served from this embedded filesystem.

//go:embed all:web/static
var StaticFS embed.FS
