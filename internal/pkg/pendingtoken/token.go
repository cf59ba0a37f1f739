package pendingtoken

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const separator = "."

// MinSecretLength is the minimum accepted signing secret size in bytes.
const MinSecretLength = 32

var (
	// ErrInvalid is returned for any token that cannot be trusted.
	ErrInvalid = errors.New("pendingtoken: invalid token")

	// ErrSecretTooShort is returned when the signing secret is shorter than MinSecretLength.
	ErrSecretTooShort = errors.New("pendingtoken: secret must be at least 32 bytes")

	// ErrNilClock is returned when NewCodec is given no clock.
	ErrNilClock = errors.New("pendingtoken: clock is required")
)

var encoding = base64.RawURLEncoding.Strict()

type clocker interface {
	Now() time.Time
}

// Payload is the signed content of a pending token.
type Payload struct {
	Email     string
	ExpiresAt int64
}

// wirePayload keeps the JSON field names stable.
type wirePayload struct {
	Email string `json:"email"`
	Exp   int64  `json:"exp"`
}

// Codec encodes and decodes pending tokens with one HMAC secret.
type Codec struct {
	secret []byte
	clock  clocker
}

// NewCodec builds a Codec. The secret is copied.
func NewCodec(secret []byte, clock clocker) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	if clock == nil {
		return nil, ErrNilClock
	}

	return &Codec{
		secret: bytes.Clone(secret),
		clock:  clock,
	}, nil
}

// Encode serializes and signs the payload.
func (c *Codec) Encode(p Payload) (string, error) {
	raw, err := json.Marshal(wirePayload{Email: p.Email, Exp: p.ExpiresAt})
	if err != nil {
		return "", err
	}

	body := encoding.EncodeToString(raw)
	return body + separator + encoding.EncodeToString(c.sign(body)), nil
}

// Decode verifies the signature and expiry and returns the payload.
func (c *Codec) Decode(token string) (Payload, error) {
	body, sig, found := strings.Cut(token, separator)
	if !found || body == "" || sig == "" {
		return Payload{}, ErrInvalid
	}

	given, err := encoding.DecodeString(sig)
	if err != nil {
		return Payload{}, ErrInvalid
	}

	expected := c.sign(body)
	if len(given) != len(expected) || subtle.ConstantTimeCompare(given, expected) != 1 {
		return Payload{}, ErrInvalid
	}

	raw, err := encoding.DecodeString(body)
	if err != nil {
		return Payload{}, ErrInvalid
	}

	p, ok := parsePayload(raw)
	if !ok {
		return Payload{}, ErrInvalid
	}

	if p.ExpiresAt <= c.clock.Now().Unix() {
		return Payload{}, ErrInvalid
	}

	return p, nil
}

func (c *Codec) sign(body string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(body))
	return mac.Sum(nil)
}

// parsePayload requires email to be a non-empty string and exp to be an
// integer that fits in int64. Fractions and exponents are rejected.
func parsePayload(raw []byte) (Payload, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Payload{}, false
	}

	var email string
	if err := json.Unmarshal(fields["email"], &email); err != nil || email == "" {
		return Payload{}, false
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(fields["exp"]))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return Payload{}, false
	}

	exp, ok := v.(json.Number)
	if !ok {
		return Payload{}, false
	}

	expAt, err := exp.Int64()
	if err != nil {
		return Payload{}, false
	}

	return Payload{Email: email, ExpiresAt: expAt}, true
}
