package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "user-registration-service/pkg/errors"
)

// Claims carries the registered JWT claims plus the user identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// Issuer mints and verifies HS256 bearer tokens for session continuity.
// Tokens are stateless; there is no revocation list.
type Issuer struct {
	secret   []byte
	validity time.Duration
}

// NewIssuer creates a token issuer with the given signing secret and validity
// window.
func NewIssuer(secret string, validity time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), validity: validity}
}

// Issue mints a signed token binding to the given user ID.
func (i *Issuer) Issue(userID string) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
		UserID: userID,
	})

	return t.SignedString(i.secret)
}

// Verify parses and validates a token string and returns the bound user ID.
// Any parse, signature, or expiry failure maps to ErrUnauthorized.
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return "", apperrors.ErrUnauthorized
	}

	if !t.Valid || claims.UserID == "" {
		return "", apperrors.ErrUnauthorized
	}

	return claims.UserID, nil
}
