package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/twostep/internal/authority/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyPrefix = "authority:otp:"

// checkScript runs the whole check in one step so concurrent checks
// cannot lose attempts. A record is deleted when it is malformed, when the
// miss that reaches the limit is recorded, and on a match when consuming.
//
// KEYS[1] record, ARGV[1] submitted digest, ARGV[2] allowed attempts,
// ARGV[3] "1" to consume on match.
var checkScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
  return 'missing'
end

local sep = string.find(raw, ':', 1, true)
local hash, n
if sep then
  hash = string.sub(raw, 1, sep - 1)
  n = tonumber(string.sub(raw, sep + 1))
end
if not sep or hash == '' or not n or n < 0 or n ~= math.floor(n) then
  redis.call('DEL', KEYS[1])
  return 'malformed'
end

local allowed = tonumber(ARGV[2])
if n >= allowed then
  redis.call('DEL', KEYS[1])
  return 'exhausted'
end

if hash == ARGV[1] then
  if ARGV[3] == '1' then
    redis.call('DEL', KEYS[1])
  end
  return 'match'
end

n = n + 1
if n >= allowed then
  redis.call('DEL', KEYS[1])
else
  redis.call('SET', KEYS[1], hash .. ':' .. n, 'KEEPTTL')
end
return 'mismatch'
`)

type Cache struct {
	client redis.Cmdable
	ins    instrument.Instrumentation
}

func NewCache(client redis.Cmdable, ins instrument.Instrumentation) *Cache {
	return &Cache{client: client, ins: ins}
}

func key(otpType, email string) string {
	return keyPrefix + otpType + ":" + email
}

func (s *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("authority.outbound.cache").Start(ctx, name)
}

func (s *Cache) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// SaveOTP stores a fresh record, replacing any previous one for the same
// email and type.
func (s *Cache) SaveOTP(ctx context.Context, otpType, email string, rec entity.OTP, ttl time.Duration) (err error) {
	ctx, span := s.startSpan(ctx, "SaveOTP")
	defer func() { s.endSpan(span, err) }()

	return s.client.Set(ctx, key(otpType, email), rec.String(), ttl).Err()
}

// CheckOTP atomically checks digest against the stored record and counts a
// miss. With consume set, a matching record is deleted.
func (s *Cache) CheckOTP(ctx context.Context, otpType, email, digest string, allowed int, consume bool) (_ entity.OTPCheck, err error) {
	ctx, span := s.startSpan(ctx, "CheckOTP")
	defer func() { s.endSpan(span, err) }()

	flag := "0"
	if consume {
		flag = "1"
	}

	res, err := checkScript.Run(ctx, s.client, []string{key(otpType, email)}, digest, strconv.Itoa(allowed), flag).Text()
	if err != nil {
		return "", err
	}

	out := entity.OTPCheck(res)
	switch out {
	case entity.OTPMatch, entity.OTPMismatch, entity.OTPMissing, entity.OTPExhausted, entity.OTPMalformed:
		span.SetAttributes(attribute.String("otp.check", res))
		return out, nil
	default:
		return "", errors.New("authority: unexpected otp check result " + strconv.Quote(res))
	}
}
