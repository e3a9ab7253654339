// Package auth implements the authentication coordinator: it turns the
// stateless proof primitives into the three-step registration /
// challenge / verification protocol, enforcing per-user policy and issuing
// session tokens on success.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/zkpauth/internal/common"
)

// Claims carries the authenticated username alongside the registered JWT
// claims.
type Claims struct {
	jwt.RegisteredClaims
	Username string
}

// GenerateSessionToken mints an HS256 session token for the given username.
func GenerateSessionToken(username string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Username: username,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// UsernameFromToken validates a session token and returns the username it
// was issued for. Expired or malformed tokens fail with ErrInvalidToken.
func UsernameFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.Username, nil
}
