package auth

import (
	"testing"
	"time"

	"github.com/hagigaapp/hagiga-server/internal/domain"
	domainerrors "github.com/hagigaapp/hagiga-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser() *domain.User {
	return &domain.User{
		Syncable: domain.Syncable{ID: "usr-test1"},
		Email:    "host@example.com",
		Role:     domain.RoleHost,
	}
}

func TestNewTokenService_SecretTooShort(t *testing.T) {
	_, err := NewTokenService("short", time.Hour)
	assert.Error(t, err)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr-test1", claims.Subject)
	assert.Equal(t, "host", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenService_Expired(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Millisecond)
	require.NoError(t, err)

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestTokenService_WrongSecret(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	other, err := NewTokenService("ffffffffffffffffffffffffffffffff", time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestTokenService_Garbage(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	_, err = svc.VerifyToken("not.a.token")
	assert.Error(t, err)
}
