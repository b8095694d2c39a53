package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives the bcrypt hash stored on the user document. Only the
// hash ever leaves this package; the plaintext is never persisted.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPasswordHash reports whether password matches the stored bcrypt hash.
// Used by login and the password-change flow.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
