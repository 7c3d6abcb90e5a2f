package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)

	tokenString, expiresAt, err := svc.GenerateAccessToken("user-1", "emp-1", user.RoleHR)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, "hr", claims["role"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestSSEToken_RoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)

	tokenString, expiresIn, err := svc.GenerateSSEToken("emp-42")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	employeeID, err := svc.ValidateSSEToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "emp-42", employeeID)
}

func TestValidateSSEToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)

	access, _, err := svc.GenerateAccessToken("user-1", "emp-1", user.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(access)
	assert.Error(t, err)
}

func TestValidateSSEToken_RejectsForeignSignature(t *testing.T) {
	other := NewJWTService("another-secret", time.Hour)
	tokenString, _, err := other.GenerateSSEToken("emp-1")
	require.NoError(t, err)

	_, err = NewJWTService(testSecret, time.Hour).ValidateSSEToken(tokenString)
	assert.Error(t, err)
}
