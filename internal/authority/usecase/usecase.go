package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shandysiswandi/twostep/internal/authority/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/clock"
	"github.com/shandysiswandi/twostep/internal/pkg/config"
	"github.com/shandysiswandi/twostep/internal/pkg/hash"
	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"github.com/shandysiswandi/twostep/internal/pkg/jwt"
	"github.com/shandysiswandi/twostep/internal/pkg/otp"
	"github.com/shandysiswandi/twostep/internal/pkg/validator"
	"github.com/shandysiswandi/twostep/internal/shared/event"
	"go.opentelemetry.io/otel/trace"
)

const (
	MsgInvalidCode  = "Invalid or expired code. Please try again."
	MsgAuthRequired = "Authentication required"
)

const (
	defaultOTPTTL   = 300 * time.Second
	defaultAttempts = 3
	defaultJWTTTL   = 60 * time.Minute
	envProduction   = "production"
)

type repoCache interface {
	SaveOTP(ctx context.Context, otpType, email string, rec entity.OTP, ttl time.Duration) error
	CheckOTP(ctx context.Context, otpType, email, digest string, allowed int, consume bool) (entity.OTPCheck, error)
}

type repoDB interface {
	FindUserByEmail(ctx context.Context, email string) (*entity.User, error)
}

type repoMessaging interface {
	PublishSignInOTP(ctx context.Context, msg event.AuthoritySignInOTPMessage) error
}

type repoSession interface {
	Set(ctx context.Context, token string, ttl time.Duration) error
	Clear(ctx context.Context) error
}

type Usecase struct {
	repoCache     repoCache
	repoDB        repoDB
	repoMessaging repoMessaging
	repoSession   repoSession
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	otp           otp.Generator
	jwt           jwt.JWT
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoCache     repoCache
	RepoDB        repoDB
	RepoMessaging repoMessaging
	RepoSession   repoSession
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	OTP           otp.Generator
	JWT           jwt.JWT
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoCache:     dep.RepoCache,
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		repoSession:   dep.RepoSession,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		otp:           dep.OTP,
		jwt:           dep.JWT,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("authority.usecase").Start(ctx, name)
}

func (s *Usecase) otpTTL() time.Duration {
	if d := s.cfg.GetSecond("modules.authority.otp_ttl_seconds"); d > 0 {
		return d
	}
	return defaultOTPTTL
}

func (s *Usecase) allowedAttempts() int {
	if n := s.cfg.GetInt("modules.authority.allowed_attempts"); n > 0 {
		return n
	}
	return defaultAttempts
}

func (s *Usecase) sessionTTL() time.Duration {
	if d := s.cfg.GetMinute("jwt.ttl_minutes"); d > 0 {
		return d
	}
	return defaultJWTTTL
}

func (s *Usecase) isProduction() bool {
	return strings.EqualFold(s.cfg.GetString("app.env"), envProduction)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
