package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pantrychef/internal/service"
	"github.com/pageza/pantrychef/internal/types"
)

func newSessionRouter(t *testing.T) (*gin.Engine, *service.SessionTokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := service.NewSessionTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	router := gin.New()
	router.Use(RequestLogger(), Session(tokens, false))
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, SessionID(c))
	})
	return router, tokens
}

func TestSessionMiddleware(t *testing.T) {
	t.Run("mints a session", func(t *testing.T) {
		router, tokens := newSessionRouter(t)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, w.Code)
		token := w.Header().Get(SessionTokenHeader)
		require.NotEmpty(t, token)
		claims, err := tokens.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, claims.SessionID(), w.Body.String())
		assert.Contains(t, w.Header().Get("Set-Cookie"), SessionCookieName+"=")
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("reuses a bearer token", func(t *testing.T) {
		router, tokens := newSessionRouter(t)
		id := tokens.NewSessionID()
		token, err := tokens.Issue(id)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, id, w.Body.String())
		assert.Empty(t, w.Header().Get(SessionTokenHeader))
	})

	t.Run("reuses the cookie", func(t *testing.T) {
		router, tokens := newSessionRouter(t)
		id := tokens.NewSessionID()
		token, err := tokens.Issue(id)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, id, w.Body.String())
	})

	t.Run("refreshes a token past half its lifetime", func(t *testing.T) {
		router, tokens := newSessionRouter(t)
		id := tokens.NewSessionID()
		issued := time.Now().Add(-40 * time.Minute)
		old, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   id,
				Issuer:    "pantrychef",
				IssuedAt:  jwt.NewNumericDate(issued),
				ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
			},
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: old})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, id, w.Body.String(), "same session")
		fresh := w.Header().Get(SessionTokenHeader)
		require.NotEmpty(t, fresh)
		assert.NotEqual(t, old, fresh)
		assert.Contains(t, w.Header().Get("Set-Cookie"), SessionCookieName+"="+fresh)

		claims, err := tokens.Validate(fresh)
		require.NoError(t, err)
		assert.Equal(t, id, claims.SessionID())
		assert.True(t, claims.ExpiresAt.After(time.Now().Add(50*time.Minute)))
	})

	t.Run("replaces an invalid token", func(t *testing.T) {
		router, _ := newSessionRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(SessionTokenHeader))
		assert.NotEmpty(t, w.Body.String())
	})
}
