package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestService() *Service {
	return NewService("test-access-secret", "test-refresh-secret", 15*time.Minute, 240*time.Hour)
}

func TestNewService(t *testing.T) {
	service := newTestService()

	assert.NotNil(t, service)
	assert.Equal(t, []byte("test-access-secret"), service.accessSecret)
	assert.Equal(t, []byte("test-refresh-secret"), service.refreshSecret)
}

func TestGenerateAccessToken(t *testing.T) {
	service := newTestService()

	token, err := service.GenerateAccessToken("user-123", "ana@example.com", "ana", "Ana")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestValidateAccessToken(t *testing.T) {
	service := newTestService()

	token, err := service.GenerateAccessToken("user-123", "ana@example.com", "ana", "Ana")
	assert.NoError(t, err)

	claims, err := service.ValidateAccessToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "Ana", claims.FullName)
}

func TestValidateAccessToken_InvalidToken(t *testing.T) {
	service := newTestService()

	_, err := service.ValidateAccessToken("invalid-token")
	assert.Error(t, err)
}

func TestValidateAccessToken_EmptyToken(t *testing.T) {
	service := newTestService()

	_, err := service.ValidateAccessToken("")
	assert.Error(t, err)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	service1 := NewService("secret-key-1", "refresh-1", time.Minute, time.Hour)
	service2 := NewService("secret-key-2", "refresh-2", time.Minute, time.Hour)

	token, err := service1.GenerateAccessToken("user-123", "a@x.com", "ana", "Ana")
	assert.NoError(t, err)

	_, err = service2.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_RejectsRefreshSecret(t *testing.T) {
	service := newTestService()

	// A refresh token must never validate as an access token
	refreshToken, err := service.GenerateRefreshToken("user-123")
	assert.NoError(t, err)

	_, err = service.ValidateAccessToken(refreshToken)
	assert.Error(t, err)
}

func TestGenerateAndValidateRefreshToken_RoundTrip(t *testing.T) {
	service := newTestService()

	token, err := service.GenerateRefreshToken("user-456")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateRefreshToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-456", claims.UserID)
}

func TestValidateRefreshToken_Expired(t *testing.T) {
	service := NewService("access", "refresh", time.Minute, -time.Minute)

	token, err := service.GenerateRefreshToken("user-123")
	assert.NoError(t, err)

	_, err = service.ValidateRefreshToken(token)
	assert.Error(t, err)
}

func TestAccessToken_ExpirySet(t *testing.T) {
	service := newTestService()

	token, err := service.GenerateAccessToken("user-123", "a@x.com", "ana", "Ana")
	assert.NoError(t, err)

	claims, err := service.ValidateAccessToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims.ExpiresAt)
	assert.True(t, time.Now().Before(claims.ExpiresAt.Time))
}
