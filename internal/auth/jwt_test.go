package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewManagerRejectsWeakConfig(t *testing.T) {
	_, err := NewManager("short", time.Minute)
	assert.Error(t, err)

	_, err = NewManager(testSecret, 0)
	assert.Error(t, err)
}

func TestIssueAndValidate(t *testing.T) {
	m, err := NewManager(testSecret, 15*time.Minute)
	require.NoError(t, err)

	token, err := m.Issue(42, "provider", "sess-1")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "provider", claims.Role)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateExpired(t *testing.T) {
	m, err := NewManager(testSecret, time.Minute)
	require.NoError(t, err)

	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.Issue(1, "client", "s")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	a, _ := NewManager(testSecret, time.Minute)
	b, _ := NewManager("another-secret-another-secret", time.Minute)

	token, err := a.Issue(1, "client", "s")
	require.NoError(t, err)

	_, err = b.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsNoneAlgorithm(t *testing.T) {
	m, _ := NewManager(testSecret, time.Minute)
	claims := &Claims{UserID: 1, SessionID: "s", RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateGarbage(t *testing.T) {
	m, _ := NewManager(testSecret, time.Minute)
	_, err := m.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	_, err := HashPassword("short")
	assert.Error(t, err)

	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse battery"))
	assert.False(t, CheckPassword(hash, "wrong horse battery"))
}
