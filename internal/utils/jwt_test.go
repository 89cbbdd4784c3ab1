// internal/utils/jwt_test.go
package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("jwt-test-secret")

	userID := uuid.New()
	token, err := GenerateJWT(userID, "deniz", "board", "member", 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "deniz", claims.Username)
	assert.Equal(t, "board", claims.Role)
	assert.Equal(t, "member", claims.MembershipStatus)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	SetJWTSecret("jwt-test-secret")
	token, err := GenerateJWT(uuid.New(), "deniz", "user", "member", 1)
	require.NoError(t, err)

	SetJWTSecret("a-different-secret")
	defer SetJWTSecret("jwt-test-secret")

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	SetJWTSecret("jwt-test-secret")
	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	SetJWTSecret("jwt-test-secret")

	userID := uuid.New()
	token, err := GenerateRefreshToken(userID, 1)
	require.NoError(t, err)

	got, err := ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), got)
}
