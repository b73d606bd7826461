package auth

import (
	"testing"
	"time"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	v := NewVerifier(testSecret)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":       "42",
		"firstName": "Jan",
		"surname":   "Kowalski",
		"role":      "user",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	identity, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), identity.ID)
	assert.Equal(t, "Jan Kowalski", identity.DisplayName)
	assert.Equal(t, models.RoleUser, identity.Role)
}

func TestVerifyNumericSubject(t *testing.T) {
	v := NewVerifier(testSecret)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":       7,
		"firstName": "Anna",
		"surname":   "Nowak",
		"role":      "ADMIN",
	})

	identity, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), identity.ID)
	assert.Equal(t, models.RoleAdmin, identity.Role)
}

func TestVerifyWrongSecret(t *testing.T) {
	v := NewVerifier(testSecret)

	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub":  "1",
		"role": "user",
	})

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyExpiredToken(t *testing.T) {
	v := NewVerifier(testSecret)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "1",
		"role": "user",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyUnknownRole(t *testing.T) {
	v := NewVerifier(testSecret)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "1",
		"role": "moderator",
	})

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyGarbage(t *testing.T) {
	v := NewVerifier(testSecret)

	_, err := v.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
