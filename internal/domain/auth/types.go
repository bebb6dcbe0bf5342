package auth

// Package auth contains domain-level types for sessions and credentials.
// It is pure and free of framework/adapter concerns.

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Profile is the denormalized user snapshot cached alongside the credential
// for synchronous reads. It is not authoritative; the credential's subject
// identifier is authoritative for "who is logged in". Absence of a profile
// does not imply unauthenticated; only absence of the credential does.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}

// IsAdmin returns true if the profile carries the admin role.
func (p Profile) IsAdmin() bool { return p.Role == RoleAdmin }

// State is the session state tag. Exactly one value holds at any instant,
// owned exclusively by the session machine.
type State int

const (
	// StateLoading is the initial state before the first credential store
	// read completes. Redirect decisions must be deferred while loading;
	// it never means "unauthenticated".
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable observation of the session machine: the state tag
// plus the profile when authenticated.
type Snapshot struct {
	State   State
	Profile *Profile
}

// Authenticated reports whether the snapshot carries an authenticated session.
func (s Snapshot) Authenticated() bool { return s.State == StateAuthenticated }
