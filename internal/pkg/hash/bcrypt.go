package hash

import "golang.org/x/crypto/bcrypt"

// Bcrypt appends pepper to the plaintext on both Hash and Verify.
type Bcrypt struct {
	cost   int
	pepper []byte
}

func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost, pepper: []byte(pepper)}
}

func (b *Bcrypt) peppered(s string) []byte {
	return append([]byte(s), b.pepper...)
}

func (b *Bcrypt) Hash(str string) ([]byte, error) {
	return bcrypt.GenerateFromPassword(b.peppered(str), b.cost)
}

func (b *Bcrypt) Verify(hashed, str string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), b.peppered(str)) == nil
}
