package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken wraps the compact JWT issued by the identity endpoint.
// The client never verifies the signature (it has no key material for
// that); it only inspects the registered claims to decide when a refresh
// is due.
type AccessToken string

// String returns the compact serialized form of the token.
func (t AccessToken) String() string { return string(t) }

// ExpiresAt returns the token's "exp" claim. The zero time is returned if
// the token cannot be parsed or carries no expiry.
func (t AccessToken) ExpiresAt() time.Time {
	token, _, err := jwt.NewParser().ParseUnverified(string(t), jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// ExpiresWithin reports whether the token expires within d from now.
// Tokens without a readable expiry are treated as expiring, so callers
// fall back to a refresh rather than sending a dead token.
func (t AccessToken) ExpiresWithin(d time.Duration) bool {
	exp := t.ExpiresAt()
	if exp.IsZero() {
		return true
	}
	return time.Until(exp) < d
}
