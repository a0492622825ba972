package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenService(t *testing.T) {
	svc, err := NewSessionTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		id := svc.NewSessionID()
		token, err := svc.Issue(id)
		require.NoError(t, err)

		claims, err := svc.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, id, claims.SessionID())
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewSessionTokenService("other-secret", time.Hour)
		require.NoError(t, err)
		token, err := other.Issue(svc.NewSessionID())
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		short, err := NewSessionTokenService("test-secret", -time.Minute)
		require.NoError(t, err)
		token, err := short.Issue(svc.NewSessionID())
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("non-uuid subject", func(t *testing.T) {
		token, err := svc.Issue("not-a-uuid")
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": svc.NewSessionID(), "iss": tokenIssuer})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Validate(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("ephemeral secret", func(t *testing.T) {
		eph, err := NewSessionTokenService("", time.Hour)
		require.NoError(t, err)
		token, err := eph.Issue(eph.NewSessionID())
		require.NoError(t, err)
		_, err = eph.Validate(token)
		assert.NoError(t, err)
	})
}
