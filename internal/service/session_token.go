package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pageza/pantrychef/internal/observability"
	"github.com/pageza/pantrychef/internal/types"
)

const tokenIssuer = "pantrychef"

// ErrInvalidToken is returned for tokens that fail signature or claim checks
var ErrInvalidToken = errors.New("invalid session token")

// SessionTokenService issues and validates signed session tokens
type SessionTokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionTokenService creates a token service. An empty secret is
// replaced by a random one, so tokens do not survive a restart.
func NewSessionTokenService(secret string, ttl time.Duration) (*SessionTokenService, error) {
	key := []byte(secret)
	if secret == "" {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		observability.Logger().Warn("SESSION_SECRET not set, using an ephemeral secret")
	}
	return &SessionTokenService{secret: key, ttl: ttl}, nil
}

// NewSessionID returns a fresh random session id
func (s *SessionTokenService) NewSessionID() string {
	return uuid.NewString()
}

// Issue signs a token for sessionID
func (s *SessionTokenService) Issue(sessionID string) (string, error) {
	now := time.Now()
	claims := &types.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate checks a token and returns its claims
func (s *SessionTokenService) Validate(tokenString string) (*types.SessionClaims, error) {
	claims := &types.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.SessionID()); err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims, nil
}
