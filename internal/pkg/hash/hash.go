// Package hash hashes secrets: bcrypt and Argon2id for passwords, keyed
// HMAC-SHA256 for short-lived one-time codes.
package hash

import "strings"

// Hash hashes a plaintext and verifies a plaintext against a stored hash.
type Hash interface {
	Hash(str string) ([]byte, error)
	Verify(hashed, str string) bool
}

// Password verifies stored password hashes of either supported scheme.
//
// Argon2id hashes are recognised by the "$argon2id$" prefix and bcrypt hashes
// by "$2". Anything else fails verification. New hashes use bcrypt.
type Password struct {
	bcrypt *Bcrypt
	argon  *Argon2id
}

// NewPassword returns a Password hasher that writes bcrypt with cost.
func NewPassword(cost int, pepper string) *Password {
	return &Password{
		bcrypt: NewBcrypt(cost, pepper),
		argon:  NewArgon2id(pepper),
	}
}

// Hash hashes str with bcrypt.
func (p *Password) Hash(str string) ([]byte, error) {
	return p.bcrypt.Hash(str)
}

// Verify reports whether str matches hashed.
func (p *Password) Verify(hashed, str string) bool {
	switch {
	case strings.HasPrefix(hashed, "$argon2id$"):
		return p.argon.Verify(hashed, str)
	case strings.HasPrefix(hashed, "$2"):
		return p.bcrypt.Verify(hashed, str)
	default:
		return false
	}
}
