// Package auth implements the session.Backend capability against a
// GoTrue-compatible auth service or against the service's own database.
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// SessionKey is the device storage key holding the persisted auth session.
const SessionKey = "nephra_auth_session"

// PasswordCost is the bcrypt cost used for new password hashes.
var PasswordCost = bcrypt.DefaultCost

// KV is the device-scoped key/value storage a backend persists its session in.
type KV interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// HashPassword generates a bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plaintext password with a stored bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
