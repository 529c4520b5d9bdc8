// Package token issues and verifies the stateless bearer tokens that bind a
// request to a user id. Validity is purely cryptographic and time-based;
// nothing is persisted server-side.
package token

import (
	"time"

	"github.com/AbhinavKRN/microsocial-native-assignment/internal/apperrors"
	"github.com/golang-jwt/jwt/v4"
)

// Claims are custom claims extending standard jwt.RegisteredClaims
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens with a shared server secret
type Issuer struct {
	secret   []byte
	lifetime time.Duration
}

// NewIssuer creates an Issuer. Lifetime must be positive; the caller supplies
// the configured default (7 days) when nothing is set.
func NewIssuer(secret string, lifetime time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), lifetime: lifetime}
}

// Issue signs a token for the given user id, valid for the configured lifetime
func (i *Issuer) Issue(userID uint) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// Verify parses and validates a token string and returns the user id it was
// issued for. Any failure (bad signature, wrong algorithm, malformed input,
// expiry) comes back as apperrors.ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (uint, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !t.Valid {
		return 0, apperrors.ErrInvalidToken
	}
	return claims.UserID, nil
}
