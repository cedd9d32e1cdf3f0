package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	assert.True(t, VerifyPassword("correct horse battery staple", hash))
	assert.False(t, VerifyPassword("wrong password", hash))
}

func TestVerifyPassword_LongPasswordsShareA72BytePrefix(t *testing.T) {
	prefix := strings.Repeat("a", 72)
	hash, err := HashPassword(prefix + "tail-one")
	require.NoError(t, err)

	// Only the first 72 bytes participate in the hash.
	assert.True(t, VerifyPassword(prefix+"tail-two", hash))
	assert.False(t, VerifyPassword(strings.Repeat("b", 72), hash))
}

func TestVerifyPassword_DummyHashNeverMatches(t *testing.T) {
	assert.False(t, VerifyPassword("any password at all", DummyPasswordHash))
	assert.False(t, VerifyPassword("", DummyPasswordHash))
}

func TestTokenManager_RoundTrip(t *testing.T) {
	mgr := NewTokenManager("test-secret", time.Hour)

	token, err := mgr.CreateAccessToken("user-42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := mgr.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", subject)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	mgr := NewTokenManager("test-secret", -time.Minute)

	token, err := mgr.CreateAccessToken("user-42")
	require.NoError(t, err)

	_, err = mgr.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	mgr := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("another-secret", time.Hour)

	token, err := mgr.CreateAccessToken("user-42")
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	mgr := NewTokenManager("test-secret", time.Hour)

	_, err := mgr.VerifyAccessToken("not-a-jwt")
	assert.Error(t, err)
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "valid username", username: "alex", wantErr: false},
		{name: "single character", username: "a", wantErr: false},
		{name: "max length", username: strings.Repeat("x", 128), wantErr: false},
		{name: "empty", username: "", wantErr: true},
		{name: "whitespace only", username: "   ", wantErr: true},
		{name: "too long", username: strings.Repeat("x", 129), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("12345678"))
	assert.Error(t, ValidatePassword("1234567"))
	assert.Error(t, ValidatePassword(""))
}
