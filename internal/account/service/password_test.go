package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordFormat(t *testing.T) {
	hash, err := hashPassword("secret1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$"), "hash is PHC-formatted: %s", hash)
	assert.Equal(t, 6, len(strings.Split(hash, "$")), "PHC string has five sections")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := hashPassword("secret1")
	require.NoError(t, err)

	ok, err := verifyPassword("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyPassword("not-the-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	first, err := hashPassword("secret1")
	require.NoError(t, err)
	second, err := hashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each hash carries its own salt")
}

func TestVerifyPasswordRejectsGarbage(t *testing.T) {
	_, err := verifyPassword("secret1", "$md5$not-a-real-hash")
	assert.Error(t, err)
}
