// Package testutil provides shared helpers for package tests.
package testutil

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// MakeToken mints an unsigned three-segment token for tests. A nil exp
// produces a token without an expiry claim.
func MakeToken(subject string, exp *time.Time) string {
	header := map[string]string{"alg": "none", "typ": "JWT"}
	claims := map[string]any{"sub": subject}
	if exp != nil {
		claims["exp"] = exp.Unix()
	}

	h, _ := json.Marshal(header)
	c, _ := json.Marshal(claims)

	enc := base64.RawURLEncoding
	return enc.EncodeToString(h) + "." + enc.EncodeToString(c) + "." + enc.EncodeToString([]byte("test"))
}

// ExpiredToken mints a token whose expiry is one hour in the past.
func ExpiredToken(subject string) string {
	exp := time.Now().Add(-time.Hour)
	return MakeToken(subject, &exp)
}

// FreshToken mints a token that expires one hour from now.
func FreshToken(subject string) string {
	exp := time.Now().Add(time.Hour)
	return MakeToken(subject, &exp)
}

// TamperToken corrupts the claims segment so decoding fails.
func TamperToken(token string) string {
	return tamperSegment(token, 1)
}

func tamperSegment(token string, idx int) string {
	segs := []byte(token)
	dots := 0
	for i, b := range segs {
		if b == '.' {
			dots++
			if dots == idx {
				// Flip a byte just after the target separator.
				if i+1 < len(segs) {
					segs[i+1] = '!'
				}
				break
			}
		}
	}
	return string(segs)
}
