package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.False(t, IsLegacyPlaintext(hash))

	assert.True(t, VerifyPassword(hash, "s3cret-pass"))
	assert.False(t, VerifyPassword(hash, "wrong-pass"))
}

func TestHashIsSalted(t *testing.T) {
	h1, err := HashPassword("same-input")
	require.NoError(t, err)
	h2, err := HashPassword("same-input")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyLegacyPlaintext(t *testing.T) {
	assert.True(t, VerifyPassword("123456", "123456"))
	assert.False(t, VerifyPassword("123456", "654321"))
	assert.False(t, VerifyPassword("123456", "12345"))
}

func TestIsLegacyPlaintext(t *testing.T) {
	assert.True(t, IsLegacyPlaintext("123456"))
	assert.True(t, IsLegacyPlaintext(""))
	assert.False(t, IsLegacyPlaintext("$2a$10$abcdefghijklmnopqrstuv"))
	assert.False(t, IsLegacyPlaintext("$2b$12$abcdefghijklmnopqrstuv"))
	assert.False(t, IsLegacyPlaintext("$2y$10$abcdefghijklmnopqrstuv"))
}
