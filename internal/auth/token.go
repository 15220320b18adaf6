package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nshrestha/trailbook/internal/models"
)

// TokenManager issues and verifies the signed bearer tokens used for
// sessions. Tokens are not persisted server-side: validity is purely the
// signature, the expiry claim, and the issued-at comparison against the
// user's password-change timestamp (done by the session middleware).
type TokenManager struct {
	secret []byte
	expiry time.Duration
}

func NewTokenManager(secret string, expiry time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), expiry: expiry}
}

// Issue signs a token embedding the user id and issue time.
func (tm *TokenManager) Issue(userID string) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token. Expired tokens and malformed or
// tampered tokens fail with distinct sentinels; both resolve to an
// unauthenticated outcome but stay apart for observability.
func (tm *TokenManager) Verify(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", models.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", models.ErrTokenMalformed, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, models.ErrTokenMalformed
	}

	return claims, nil
}
