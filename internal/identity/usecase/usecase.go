package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/twostep/internal/identity/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/clock"
	"github.com/shandysiswandi/twostep/internal/pkg/config"
	"github.com/shandysiswandi/twostep/internal/pkg/hash"
	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"github.com/shandysiswandi/twostep/internal/pkg/otp"
	"github.com/shandysiswandi/twostep/internal/pkg/uid"
	"github.com/shandysiswandi/twostep/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// User-facing messages. Each failure class has exactly one.
const (
	MsgInvalidCredentials = "Invalid email or password. Please try again."
	MsgSessionExpired     = "Session expired. Please sign in again."
	MsgSendFailed         = "Failed to send code. Please try again."
	MsgCodeRequired       = "Please enter the 6-digit code."
	MsgInvalidCode        = "Invalid or expired code. Please try again."
	MsgSomethingWrong     = "Something went wrong. Please try again."
	MsgRegisterFailed     = "We couldn't create your account. Please check your details and try again."
)

const defaultSMSCodeTTL = 300 * time.Second

type repoDB interface {
	FindCredentialByEmail(ctx context.Context, email string) (*entity.Credential, error)
	CreateUser(ctx context.Context, user entity.NewUser, hash string) error

	ReplaceVerification(ctx context.Context, v entity.Verification) error
	FindLatestVerification(ctx context.Context, identifier string) (*entity.Verification, error)
	DeleteVerification(ctx context.Context, id string) error
}

type repoPending interface {
	Set(ctx context.Context, email string) error
	Get(ctx context.Context) *entity.PendingSession
	Clear(ctx context.Context) error
}

type repoAuthority interface {
	SendOTP(ctx context.Context, email, otpType string) (bool, error)
	CheckOTP(ctx context.Context, email, otpType, code string) (bool, error)
}

type Usecase struct {
	repoDB        repoDB
	repoPending   repoPending
	repoAuthority repoAuthority
	validator     validator.Validator
	cfg           config.Config
	password      hash.Hash
	otp           otp.Generator
	uid           uid.NumberID
	uuid          uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation

	otpIssued   metric.Int64Counter
	otpVerified metric.Int64Counter
}

type Dependency struct {
	RepoDB        repoDB
	RepoPending   repoPending
	RepoAuthority repoAuthority
	Validator     validator.Validator
	Config        config.Config
	Password      hash.Hash
	OTP           otp.Generator
	UID           uid.NumberID
	UUID          uid.StringID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	meter := dep.Instrument.Meter("identity.usecase")
	issued, _ := meter.Int64Counter("identity.login.otp.issued")
	verified, _ := meter.Int64Counter("identity.login.otp.verified")

	return &Usecase{
		repoDB:        dep.RepoDB,
		repoPending:   dep.RepoPending,
		repoAuthority: dep.RepoAuthority,
		validator:     dep.Validator,
		cfg:           dep.Config,
		password:      dep.Password,
		otp:           dep.OTP,
		uid:           dep.UID,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		otpIssued:     issued,
		otpVerified:   verified,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) smsCodeTTL() time.Duration {
	if s.cfg != nil {
		if d := s.cfg.GetSecond("modules.identity.sms_otp_ttl_seconds"); d > 0 {
			return d
		}
	}
	return defaultSMSCodeTTL
}

func (s *Usecase) count(ctx context.Context, c metric.Int64Counter, ch entity.Channel, outcome string) {
	if c == nil {
		return
	}
	c.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", ch.String()),
		attribute.String("outcome", outcome),
	))
}
