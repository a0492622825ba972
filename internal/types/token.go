package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims represents the claims carried in a session token.
// The session id travels in the registered subject claim.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionID returns the session the token was issued for
func (c *SessionClaims) SessionID() string {
	return c.Subject
}

// RefreshDue reports whether more than half of the token's lifetime has
// passed at now. Tokens without both timestamps are never refreshed.
func (c *SessionClaims) RefreshDue(now time.Time) bool {
	if c.IssuedAt == nil || c.ExpiresAt == nil {
		return false
	}
	half := c.ExpiresAt.Sub(c.IssuedAt.Time) / 2
	return now.After(c.IssuedAt.Add(half))
}
