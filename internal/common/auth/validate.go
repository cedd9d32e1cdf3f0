// internal/common/auth/validate.go
package auth

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	minUsernameLength = 1
	maxUsernameLength = 128
	minPasswordLength = 8
)

// ValidateUsername enforces the signup username constraints.
func ValidateUsername(username string) error {
	trimmed := strings.TrimSpace(username)
	if utf8.RuneCountInString(trimmed) < minUsernameLength {
		return fmt.Errorf("username must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > maxUsernameLength {
		return fmt.Errorf("username must be at most %d characters", maxUsernameLength)
	}
	return nil
}

// ValidatePassword enforces the signup password constraints.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}
