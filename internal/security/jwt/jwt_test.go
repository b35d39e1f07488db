package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret-0123456789"

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	m := NewManager(testSecret, 3600, "sysadmin")

	token, err := m.Issue(42, "zhangsan", []string{"/api/add_user", "/api/delete_user"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "zhangsan", claims.Username)
	assert.Equal(t, []string{"/api/add_user", "/api/delete_user"}, claims.Permissions)
	assert.Equal(t, "sysadmin", claims.Issuer)
}

func TestVerifyExpiredToken(t *testing.T) {
	m := NewManager(testSecret, -60, "sysadmin")

	token, err := m.Issue(42, "zhangsan", nil)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	other := NewManager("another-secret-9876543210", 3600, "sysadmin")
	token, err := other.Issue(42, "zhangsan", nil)
	require.NoError(t, err)

	m := NewManager(testSecret, 3600, "sysadmin")
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyMalformedToken(t *testing.T) {
	m := NewManager(testSecret, 3600, "sysadmin")

	for _, tok := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token=%q", tok)
	}
}

func TestVerifyTamperedPayload(t *testing.T) {
	m := NewManager(testSecret, 3600, "sysadmin")
	token, err := m.Issue(42, "zhangsan", nil)
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "AAAA"
	_, err = m.Verify(tampered)
	assert.Error(t, err)
}
