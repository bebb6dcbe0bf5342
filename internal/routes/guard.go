package routes

import domainauth "github.com/driftline/driftline/internal/domain/auth"

// Action is the route guard's verdict for a (state, path) pair.
type Action int

const (
	// ActionAllow lets the navigation proceed.
	ActionAllow Action = iota
	// ActionDefer suppresses any decision; the session is still loading.
	ActionDefer
	// ActionRedirect replaces the current navigation with Target.
	// Redirects are replace-style, not push, to avoid back-button bounce
	// into a disallowed state.
	ActionRedirect
)

// Decision is the guard's output. Target is set only for ActionRedirect.
type Decision struct {
	Action Action
	Target string
}

// Decide is the in-page route guard: a pure decision table over session
// state and route class. It performs no I/O. The table is constructed so
// that every redirect target classifies to allow under the resulting state,
// which keeps the guard idempotent and loop-free.
func Decide(state domainauth.State, path string) Decision {
	if state == domainauth.StateLoading {
		return Decision{Action: ActionDefer}
	}

	class := Classify(path)

	if state == domainauth.StateUnauthenticated {
		switch class {
		case ClassRoot:
			// Signed-out visitors land on the guest content listing.
			return Decision{Action: ActionRedirect, Target: PathExplore}
		case ClassProtected:
			return Decision{Action: ActionRedirect, Target: PathWelcome}
		case ClassGuestEntry, ClassPublic:
			return Decision{Action: ActionAllow}
		}
	}

	// Authenticated: only the welcome surface redirects (to the app root);
	// everything else is reachable.
	if normalize(path) == PathWelcome {
		return Decision{Action: ActionRedirect, Target: PathRoot}
	}
	return Decision{Action: ActionAllow}
}
