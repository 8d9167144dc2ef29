package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	h1, err := HashPassword("pw123456")
	require.NoError(t, err)
	h2, err := HashPassword("pw123456")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "hashes must be salted")
	cost, err := bcrypt.Cost([]byte(h1))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)

	assert.True(t, CompareHashAndPassword(h1, "pw123456"))
	assert.False(t, CompareHashAndPassword(h1, "wrong"))
	assert.False(t, CompareHashAndPassword("not-a-hash", "pw123456"))
}
