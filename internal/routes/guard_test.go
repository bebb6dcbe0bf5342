package routes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/routes"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		state domainauth.State
		path  string
		want  routes.Decision
	}{
		{"loading defers on root", domainauth.StateLoading, "/", routes.Decision{Action: routes.ActionDefer}},
		{"loading defers on protected", domainauth.StateLoading, "/feed", routes.Decision{Action: routes.ActionDefer}},
		{"loading defers on guest entry", domainauth.StateLoading, "/welcome", routes.Decision{Action: routes.ActionDefer}},

		{"unauthenticated root goes to explore", domainauth.StateUnauthenticated, "/", routes.Decision{Action: routes.ActionRedirect, Target: routes.PathExplore}},
		{"unauthenticated protected goes to welcome", domainauth.StateUnauthenticated, "/feed", routes.Decision{Action: routes.ActionRedirect, Target: routes.PathWelcome}},
		{"unauthenticated admin goes to welcome", domainauth.StateUnauthenticated, "/admin", routes.Decision{Action: routes.ActionRedirect, Target: routes.PathWelcome}},
		{"unauthenticated guest entry allowed", domainauth.StateUnauthenticated, "/welcome", routes.Decision{Action: routes.ActionAllow}},
		{"unauthenticated explore allowed", domainauth.StateUnauthenticated, "/explore", routes.Decision{Action: routes.ActionAllow}},
		{"unauthenticated public allowed", domainauth.StateUnauthenticated, "/about", routes.Decision{Action: routes.ActionAllow}},

		{"authenticated welcome goes home", domainauth.StateAuthenticated, "/welcome", routes.Decision{Action: routes.ActionRedirect, Target: routes.PathRoot}},
		{"authenticated root allowed", domainauth.StateAuthenticated, "/", routes.Decision{Action: routes.ActionAllow}},
		{"authenticated protected allowed", domainauth.StateAuthenticated, "/feed", routes.Decision{Action: routes.ActionAllow}},
		{"authenticated explore allowed", domainauth.StateAuthenticated, "/explore", routes.Decision{Action: routes.ActionAllow}},
		{"authenticated public allowed", domainauth.StateAuthenticated, "/about", routes.Decision{Action: routes.ActionAllow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, routes.Decide(tt.state, tt.path))
		})
	}
}

// Every redirect target must itself be allowed (or defer) in the same
// state: following the chain from any path terminates instead of looping.
func TestDecideNeverLoops(t *testing.T) {
	states := []domainauth.State{
		domainauth.StateLoading,
		domainauth.StateAuthenticated,
		domainauth.StateUnauthenticated,
	}
	paths := []string{
		"/", "/welcome", "/explore", "/explore/trending",
		"/about", "/terms", "/privacy",
		"/feed", "/admin", "/admin/users", "/settings",
	}

	for _, state := range states {
		for _, path := range paths {
			seen := map[string]bool{}
			current := path
			for hops := 0; ; hops++ {
				assert.Less(t, hops, 5, "state %v path %q: too many redirect hops", state, path)
				d := routes.Decide(state, current)
				if d.Action != routes.ActionRedirect {
					break
				}
				assert.False(t, seen[d.Target], "state %v path %q: redirect loop through %q", state, path, d.Target)
				seen[d.Target] = true
				current = d.Target
			}
		}
	}
}
