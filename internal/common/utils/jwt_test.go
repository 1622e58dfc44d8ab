package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	now := time.Now()
	claims := &JWTClaims{
		UserID:    42,
		Email:     "agnes@example.com",
		Username:  "agnes",
		Type:      "access",
		ExpiresAt: now.Add(time.Hour).Unix(),
		IssuedAt:  now.Unix(),
		NotBefore: now.Unix(),
		Issuer:    "carelink",
		Subject:   "some-public-id",
	}

	token, err := GenerateJWT(claims, "test-secret")
	require.NoError(t, err)

	parsed, err := ValidateJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
	assert.Equal(t, "agnes", parsed.Username)
	assert.Equal(t, "access", parsed.Type)
	assert.Equal(t, claims.ExpiresAt, parsed.ExpiresAt)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(&JWTClaims{
		UserID:    1,
		Type:      "access",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}, "secret-a")
	require.NoError(t, err)

	_, err = ValidateJWT(token, "secret-b")
	assert.Error(t, err)
}

func TestValidateJWTGarbage(t *testing.T) {
	_, err := ValidateJWT("not-a-token", "secret")
	assert.Error(t, err)
}
