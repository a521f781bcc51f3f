package otp

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func TestNewReturnsSixDigits(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := New()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
	}
}

func TestGenerateLength(t *testing.T) {
	code, err := Generate(10)
	require.NoError(t, err)
	assert.Len(t, code, 10)

	_, err = Generate(0)
	assert.Error(t, err)
}

func TestGenerateIsNotConstant(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := New()
		require.NoError(t, err)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}
