package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// DefaultDigits is the code length used by sign-in flows.
const DefaultDigits = 6

// Generator produces one-time codes.
type Generator interface {
	Generate() (string, error)
}

// Numeric generates zero-padded decimal codes from crypto/rand.
type Numeric struct {
	digits int
	limit  *big.Int
}

// NewNumeric returns a generator of codes with the given number of digits.
// Values outside 4..10 fall back to DefaultDigits.
func NewNumeric(digits int) *Numeric {
	if digits < 4 || digits > 10 {
		digits = DefaultDigits
	}

	limit := big.NewInt(1)
	for range digits {
		limit.Mul(limit, big.NewInt(10))
	}

	return &Numeric{digits: digits, limit: limit}
}

// Generate returns a uniformly random code in [0, 10^digits).
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(rand.Reader, n.limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", n.digits, v.Int64()), nil
}

// Digits returns the code length.
func (n *Numeric) Digits() int {
	return n.digits
}

// Normalize removes every whitespace rune from a submitted code.
func Normalize(code string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, code)
}

// Equal compares two codes in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
