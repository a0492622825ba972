package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantrychef/internal/observability"
	"github.com/pageza/pantrychef/internal/types"
)

const (
	// SessionCookieName carries the session token for the web page
	SessionCookieName = "pantrychef_session"
	// SessionTokenHeader returns a freshly minted token to API clients
	SessionTokenHeader = "X-Session-Token"

	sessionIDKey    = "session_id"
	sessionTokenKey = "session_token"
)

// SessionTokens issues and validates session tokens
type SessionTokens interface {
	NewSessionID() string
	Issue(sessionID string) (string, error)
	Validate(token string) (*types.SessionClaims, error)
}

// Session resolves the caller's session from a Bearer token or the session
// cookie. Requests without a valid token get a new session. A valid token
// past half its lifetime is re-issued for the same session, so active users
// keep their conversation for as long as the store keeps it.
func Session(tokens SessionTokens, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(SessionCookieName)
		}

		if token != "" {
			if claims, err := tokens.Validate(token); err == nil {
				if claims.RefreshDue(time.Now()) {
					if fresh, err := tokens.Issue(claims.SessionID()); err == nil {
						setSessionToken(c, fresh, secureCookie)
						token = fresh
					} else {
						observability.LoggerFromContext(c.Request.Context()).Warn("failed to refresh session token", "error", err)
					}
				}
				c.Set(sessionIDKey, claims.SessionID())
				c.Set(sessionTokenKey, token)
				c.Next()
				return
			}
			observability.LoggerFromContext(c.Request.Context()).Debug("discarding invalid session token")
		}

		id := tokens.NewSessionID()
		token, err := tokens.Issue(id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to start session"})
			return
		}

		setSessionToken(c, token, secureCookie)
		c.Set(sessionIDKey, id)
		c.Set(sessionTokenKey, token)
		c.Next()
	}
}

func setSessionToken(c *gin.Context, token string, secureCookie bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, 0, "/", "", secureCookie, true)
	c.Header(SessionTokenHeader, token)
}

// SessionID returns the session resolved by the Session middleware
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// SessionToken returns the token for the current session
func SessionToken(c *gin.Context) string {
	return c.GetString(sessionTokenKey)
}

func bearerToken(c *gin.Context) string {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
