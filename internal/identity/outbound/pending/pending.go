package pending

import (
	"context"
	"net/http"
	"time"

	"github.com/shandysiswandi/twostep/internal/identity/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/clock"
	"github.com/shandysiswandi/twostep/internal/pkg/cookie"
	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"github.com/shandysiswandi/twostep/internal/pkg/pendingtoken"
	"go.opentelemetry.io/otel/codes"
)

// CookieSuffix is appended to the deployment cookie prefix.
const CookieSuffix = ".pending_2step"

// DefaultTTL bounds how long a password step stays usable.
const DefaultTTL = 600 * time.Second

type Config struct {
	Codec        *pendingtoken.Codec
	Clock        clock.Clocker
	Instrument   instrument.Instrumentation
	CookiePrefix string
	TTL          time.Duration
	Secure       bool
}

// Store keeps the pending session in a signed client cookie.
type Store struct {
	codec  *pendingtoken.Codec
	clock  clock.Clocker
	ins    instrument.Instrumentation
	name   string
	ttl    time.Duration
	secure bool
}

func New(cfg Config) *Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Store{
		codec:  cfg.Codec,
		clock:  cfg.Clock,
		ins:    cfg.Instrument,
		name:   cfg.CookiePrefix + CookieSuffix,
		ttl:    ttl,
		secure: cfg.Secure,
	}
}

// Name returns the cookie name.
func (s *Store) Name() string {
	return s.name
}

// Set starts a pending session for email.
func (s *Store) Set(ctx context.Context, email string) (err error) {
	ctx, span := s.ins.Tracer("identity.outbound.pending").Start(ctx, "Set")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	jar, err := cookie.FromContext(ctx)
	if err != nil {
		return err
	}

	token, err := s.codec.Encode(pendingtoken.Payload{
		Email:     email,
		ExpiresAt: s.clock.Now().Add(s.ttl).Unix(),
	})
	if err != nil {
		return err
	}

	return jar.Set(s.cookie(token, int(s.ttl/time.Second)))
}

// Get returns the pending session, or nil when it is absent, tampered or expired.
func (s *Store) Get(ctx context.Context) *entity.PendingSession {
	jar, err := cookie.FromContext(ctx)
	if err != nil {
		return nil
	}

	raw, ok := jar.Get(s.name)
	if !ok || raw == "" {
		return nil
	}

	p, err := s.codec.Decode(raw)
	if err != nil {
		return nil
	}

	return &entity.PendingSession{
		Email:     p.Email,
		ExpiresAt: time.Unix(p.ExpiresAt, 0),
	}
}

// Clear removes the pending session cookie.
func (s *Store) Clear(ctx context.Context) error {
	jar, err := cookie.FromContext(ctx)
	if err != nil {
		return err
	}

	return jar.Set(s.cookie("", -1))
}

func (s *Store) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
