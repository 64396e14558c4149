package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the minimum accepted plaintext password length.
	MinPasswordLength = 6

	// bcryptCost matches the work factor used by the rest of the platform.
	bcryptCost = 10
)

// ErrPasswordTooShort is returned when a plaintext password is below the
// minimum length.
var ErrPasswordTooShort = errors.New("password must be at least 6 characters")

// HashPassword hashes a plaintext password with bcrypt. The salt is generated
// by bcrypt and embedded in the returned hash.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored bcrypt hash.
// It returns nil on match and an error on mismatch or malformed hash.
func VerifyPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
