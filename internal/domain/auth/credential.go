package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the credential attributes this system consumes. The credential
// is an opaque signed token issued by the identity provider; we only decode
// the claims segment, we never sign or verify signatures (validation is
// delegated to the provider and the content API).
type Claims struct {
	// Subject is the stable user identifier. Authoritative for identity.
	Subject string

	// ExpiresAt is the absolute expiry instant. Nil means the credential
	// never expires; an absent exp claim is how providers issue
	// long-lived sessions.
	ExpiresAt *time.Time
}

// DecodeCredential decodes the claims segment of a raw credential string.
// The credential must be three dot-separated base64url segments whose middle
// segment is a JSON object. Any structural failure returns
// ErrMalformedCredential; callers treat that identically to absence.
func DecodeCredential(raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrNoCredential
	}

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrMalformedCredential
	}

	subject, err := mapClaims.GetSubject()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}

	claims := Claims{Subject: subject}
	if exp != nil {
		t := exp.Time
		claims.ExpiresAt = &t
	}
	return claims, nil
}

// Expired reports whether the claims carry an expiry instant at or before
// now. Claims without an expiry never expire.
func (c Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !c.ExpiresAt.After(now)
}

// ValidCredential reports whether a raw credential is present, structurally
// well-formed, and not expired at now. Decode failures count as invalid,
// never as an error to the caller.
func ValidCredential(raw string, now time.Time) bool {
	claims, err := DecodeCredential(raw)
	if err != nil {
		return false
	}
	return !claims.Expired(now)
}
