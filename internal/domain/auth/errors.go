package auth

import "errors"

// Credential and API error taxonomy. Storage and decode failures are
// absorbed by callers and normalized to an unauthenticated session; they are
// never surfaced to rendering code.
var (
	// ErrMalformedCredential marks a credential that failed structural
	// decoding. Treated as absence.
	ErrMalformedCredential = errors.New("malformed credential")

	// ErrExpiredCredential marks a credential whose expiry instant is in
	// the past. Treated as absence.
	ErrExpiredCredential = errors.New("expired credential")

	// ErrNoCredential means nothing is stored under the credential keys.
	ErrNoCredential = errors.New("no credential")

	// ErrUnauthorized is reported when a collaborator API returns 401.
	// It is the only API failure that mutates session state: callers must
	// route it through a forced logout, never handle it ad hoc.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is reported when a collaborator API returns 403. It is
	// informational: the user may be validly authenticated but lacking a
	// role, so it never clears the credential and never redirects.
	ErrForbidden = errors.New("forbidden")
)
