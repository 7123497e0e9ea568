package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/menu-publisher/internal/config"
)

func testJWTService(secret string) *JWTService {
	return NewJWTService(&config.JWTConfig{Secret: secret, ExpirationHours: 1})
}

func TestJWTRoundTrip(t *testing.T) {
	svc := testJWTService("test-secret")

	token, err := svc.GenerateToken("client-7")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "client-7", claims.GetSubject())
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := testJWTService("secret-a").GenerateToken("client-7")
	require.NoError(t, err)

	_, err = testJWTService("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTRejectsEmptyToken(t *testing.T) {
	_, err := testJWTService("test-secret").ValidateToken("")
	assert.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	_, err := testJWTService("test-secret").ValidateToken("not.a.token")
	assert.Error(t, err)
}
