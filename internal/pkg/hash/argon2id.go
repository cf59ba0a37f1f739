package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

type argonParams struct {
	memory  uint32 // KiB
	time    uint32
	threads uint8
}

// Argon2id writes PHC strings of the form
// $argon2id$v=19$m=<mem>,t=<time>,p=<threads>$<salt>$<key>.
// Verify honours the parameters stored in the hash, so they can be raised
// without invalidating existing hashes.
type Argon2id struct {
	params  argonParams
	saltLen int
	keyLen  uint32
	pepper  string
}

func NewArgon2id(pepper string) *Argon2id {
	return &Argon2id{
		params:  argonParams{memory: 32 * 1024, time: 3, threads: 2},
		saltLen: 16,
		keyLen:  32,
		pepper:  pepper,
	}
}

func (a *Argon2id) Hash(str string) ([]byte, error) {
	salt := make([]byte, a.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("hash: argon2id salt: %w", err)
	}

	p := a.params
	key := argon2.IDKey([]byte(str+a.pepper), salt, p.time, p.memory, p.threads, a.keyLen)

	enc := base64.RawStdEncoding
	return fmt.Appendf(nil, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		enc.EncodeToString(salt), enc.EncodeToString(key),
	), nil
}

func (a *Argon2id) Verify(hashed, str string) bool {
	if str == "" {
		return false
	}

	// "", "argon2id", "v=..", "m=..,t=..,p=..", salt, key
	parts := strings.Split(hashed, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var p argonParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}

	got := argon2.IDKey([]byte(str+a.pepper), salt, p.time, p.memory, p.threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(want, got) == 1
}
