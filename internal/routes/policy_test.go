package routes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/driftline/driftline/internal/routes"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want routes.Class
	}{
		{"/", routes.ClassRoot},
		{"", routes.ClassRoot},
		{"/welcome", routes.ClassGuestEntry},
		{"/welcome/", routes.ClassGuestEntry},
		{"/explore", routes.ClassGuestEntry},
		{"/explore/", routes.ClassGuestEntry},
		{"/explore/trending", routes.ClassGuestEntry},
		{"/about", routes.ClassPublic},
		{"/terms", routes.ClassPublic},
		{"/privacy", routes.ClassPublic},
		{"/feed", routes.ClassProtected},
		{"/admin", routes.ClassProtected},
		{"/admin/users", routes.ClassProtected},
		{"/settings", routes.ClassProtected},
		{"/exploreX", routes.ClassProtected},
		{"/welcome/extra", routes.ClassProtected},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, routes.Classify(tt.path), "path %q", tt.path)
	}
}

func TestEdgeProtected(t *testing.T) {
	assert.True(t, routes.EdgeProtected("/admin"))
	assert.True(t, routes.EdgeProtected("/admin/"))
	assert.True(t, routes.EdgeProtected("/admin/users"))
	assert.False(t, routes.EdgeProtected("/administrator"))
	assert.False(t, routes.EdgeProtected("/feed"))
	assert.False(t, routes.EdgeProtected("/"))
}

// Everything the edge treats as protected must classify as protected, so a
// request the edge lets through is never bounced back by the guard toward a
// path the edge would reject.
func TestEdgeAllowListIsSubsetOfProtected(t *testing.T) {
	for _, path := range []string{"/admin", "/admin/users", "/admin/audit/recent"} {
		if routes.EdgeProtected(path) {
			assert.Equal(t, routes.ClassProtected, routes.Classify(path), "path %q", path)
		}
	}
}

func TestExempt(t *testing.T) {
	assert.True(t, routes.Exempt("/static/js/app.js"))
	assert.True(t, routes.Exempt("/api/feed"))
	assert.True(t, routes.Exempt("/auth/callback"))
	assert.True(t, routes.Exempt("/healthz"))
	assert.True(t, routes.Exempt("/realtime"))
	assert.False(t, routes.Exempt("/"))
	assert.False(t, routes.Exempt("/welcome"))
	assert.False(t, routes.Exempt("/admin"))
}
