// internal/common/auth/password.go
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input beyond 72 bytes; truncate explicitly so hashing and
// verification agree on the same prefix.
const maxPasswordBytes = 72

// DummyPasswordHash is a valid bcrypt hash of a random throwaway value. Login
// verifies against it when the username does not exist, so both branches cost
// one bcrypt comparison.
const DummyPasswordHash = "$2b$12$C6UzMDM.H6dfI/f/IKcEeO5pkLYqmKd8B4jVfPYhsZTkv7NEGJpWi"

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// HashPassword hashes a password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncatePassword(password)) == nil
}
