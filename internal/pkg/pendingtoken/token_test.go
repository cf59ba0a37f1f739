package pendingtoken

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestCodec(t *testing.T, now time.Time) (*Codec, *fixedClock) {
	t.Helper()

	clk := &fixedClock{now: now}
	c, err := NewCodec(testSecret, clk)
	require.NoError(t, err)
	return c, clk
}

// forge signs an arbitrary body the same way the codec does.
func forge(c *Codec, rawJSON string) string {
	body := encoding.EncodeToString([]byte(rawJSON))
	return body + separator + encoding.EncodeToString(c.sign(body))
}

func TestNewCodec(t *testing.T) {
	_, err := NewCodec([]byte("short"), &fixedClock{})
	assert.ErrorIs(t, err, ErrSecretTooShort)

	_, err = NewCodec(testSecret, nil)
	assert.ErrorIs(t, err, ErrNilClock)

	c, err := NewCodec(testSecret, &fixedClock{})
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestCodec_RoundTrip(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c, _ := newTestCodec(t, now)

	in := Payload{Email: "a@b.com", ExpiresAt: now.Add(10 * time.Minute).Unix()}
	token, err := c.Encode(in)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(token, separator))

	out, err := c.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCodec_Decode_Expiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c, clk := newTestCodec(t, now)

	token, err := c.Encode(Payload{Email: "a@b.com", ExpiresAt: now.Add(time.Minute).Unix()})
	require.NoError(t, err)

	clk.now = now.Add(59 * time.Second)
	_, err = c.Decode(token)
	assert.NoError(t, err)

	clk.now = now.Add(time.Minute)
	_, err = c.Decode(token)
	assert.ErrorIs(t, err, ErrInvalid, "expiry equal to now is rejected")

	clk.now = now.Add(time.Hour)
	_, err = c.Decode(token)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCodec_Decode_TamperEveryBit(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c, _ := newTestCodec(t, now)

	token, err := c.Encode(Payload{Email: "a@b.com", ExpiresAt: now.Add(time.Minute).Unix()})
	require.NoError(t, err)

	raw := []byte(token)
	for i := range raw {
		for bit := range 8 {
			tampered := make([]byte, len(raw))
			copy(tampered, raw)
			tampered[i] ^= 1 << bit

			_, err := c.Decode(string(tampered))
			assert.ErrorIs(t, err, ErrInvalid, "byte %d bit %d", i, bit)
		}
	}
}

func TestCodec_Decode_OtherSecret(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c, clk := newTestCodec(t, now)
	other, err := NewCodec([]byte("fedcba9876543210fedcba9876543210"), clk)
	require.NoError(t, err)

	token, err := other.Encode(Payload{Email: "a@b.com", ExpiresAt: now.Add(time.Minute).Unix()})
	require.NoError(t, err)

	_, err = c.Decode(token)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCodec_Decode_Malformed(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c, _ := newTestCodec(t, now)
	exp := now.Add(time.Minute).Unix()

	valid, err := c.Encode(Payload{Email: "a@b.com", ExpiresAt: exp})
	require.NoError(t, err)
	body, _, _ := strings.Cut(valid, separator)

	expJSON, err := json.Marshal(exp)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "no separator", token: body},
		{name: "empty signature", token: body + separator},
		{name: "empty body", token: separator + "abc"},
		{name: "signature not base64", token: body + separator + "!!!"},
		{name: "short signature", token: body + separator + encoding.EncodeToString([]byte("x"))},
		{name: "extra segment", token: valid + separator + "x"},
		{name: "not json", token: forge(c, "not-json")},
		{name: "json array", token: forge(c, "[1,2]")},
		{name: "missing email", token: forge(c, `{"exp":`+string(expJSON)+`}`)},
		{name: "empty email", token: forge(c, `{"email":"","exp":`+string(expJSON)+`}`)},
		{name: "email not string", token: forge(c, `{"email":42,"exp":`+string(expJSON)+`}`)},
		{name: "missing exp", token: forge(c, `{"email":"a@b.com"}`)},
		{name: "exp as string", token: forge(c, `{"email":"a@b.com","exp":"`+string(expJSON)+`"}`)},
		{name: "exp null", token: forge(c, `{"email":"a@b.com","exp":null}`)},
		{name: "exp fractional", token: forge(c, `{"email":"a@b.com","exp":1700000100.5}`)},
		{name: "exp integral float", token: forge(c, `{"email":"a@b.com","exp":1700000100.0}`)},
		{name: "exp exponent", token: forge(c, `{"email":"a@b.com","exp":1.7000001e9}`)},
		{name: "exp overflows int64", token: forge(c, `{"email":"a@b.com","exp":1e300}`)},
		{name: "exp beyond int64", token: forge(c, `{"email":"a@b.com","exp":99999999999999999999}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decode(tt.token)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestCodec_Decode_ForgedButWellFormed(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c, _ := newTestCodec(t, now)

	token := forge(c, `{"email":"x@y.com","exp":1700000100,"extra":true}`)
	p, err := c.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, Payload{Email: "x@y.com", ExpiresAt: 1_700_000_100}, p)
}
