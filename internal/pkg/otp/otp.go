// Package otp generates numeric one-time codes.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Length is the number of digits in codes handed to admins
const Length = 6

// Generate returns a cryptographically secure numeric code of the given length
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("otp length must be positive, got %d", length)
	}

	var b strings.Builder
	b.Grow(length)
	ten := big.NewInt(10)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate otp digit: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// New returns a code of the standard Length
func New() (string, error) {
	return Generate(Length)
}
