package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashWithCost("s3cret-pass", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, Verify("s3cret-pass", hash))
	assert.False(t, Verify("wrong-pass", hash))
}

func TestHashIsSalted(t *testing.T) {
	a, err := HashWithCost("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashWithCost("same-password", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, HashToken("482913"), HashToken("482913"))
	assert.NotEqual(t, HashToken("482913"), HashToken("482914"))
	assert.Len(t, HashToken("482913"), 64)
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword("short"))
	assert.True(t, ValidatePassword("NewPass1"))
}
