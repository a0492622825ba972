package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pantrychef/internal/middleware"
	"github.com/pageza/pantrychef/internal/service"
	"github.com/pageza/pantrychef/internal/testhelpers"
)

// setupTestRouter builds the full route set around generator
func setupTestRouter(t *testing.T, generator service.TextGenerator) (*gin.Engine, *testhelpers.TestEnv) {
	t.Helper()
	env := testhelpers.NewTestEnv(t, generator)

	router := gin.New()
	router.Use(middleware.RequestLogger(), middleware.ErrorHandler())
	require.NoError(t, RegisterRoutes(router, Deps{
		Interactor:     env.Controller,
		Events:         env.Broker,
		Tokens:         env.Tokens,
		AllowedOrigins: []string{"http://localhost:8080"},
	}))
	return router, env
}

// newSessionToken issues a token for a fresh session
func newSessionToken(t *testing.T, env *testhelpers.TestEnv) (string, string) {
	t.Helper()
	id := env.Tokens.NewSessionID()
	token, err := env.Tokens.Issue(id)
	require.NoError(t, err)
	return id, token
}

// PerformRequestWithToken sends a JSON request authenticated with a session token
func PerformRequestWithToken(r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// PerformFormRequest posts a form with the session cookie set
func PerformFormRequest(r http.Handler, path string, form url.Values, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
