package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/twostep/internal/authority/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/goerror"
	"github.com/shandysiswandi/twostep/internal/shared/event"
)

type SendOTPInput struct {
	Email string `validate:"required,email"`
	Type  string `validate:"required"`
}

type SendOTPOutput struct {
	Success bool
}

// SendOTP issues a code for email and hands it to the notification bus.
// A new code replaces the previous one and resets its attempt counter.
func (s *Usecase) SendOTP(ctx context.Context, in SendOTPInput) (*SendOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	in.Email = normalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if !entity.ValidOTPType(in.Type) {
		return nil, goerror.NewInvalidInput(nil, "type", "type must be sign-in")
	}

	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	hashed, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.otpTTL()
	if err := s.repoCache.SaveOTP(ctx, in.Type, in.Email, entity.OTP{Hash: string(hashed)}, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to repo save otp", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.isProduction() {
		slog.InfoContext(ctx, "Login OTP (dev)", "email", in.Email, "otp", code)
	}

	if err := s.repoMessaging.PublishSignInOTP(ctx, event.AuthoritySignInOTPMessage{
		Email:     in.Email,
		OTP:       code,
		Type:      in.Type,
		ExpiresAt: s.clock.Now().Add(ttl).Unix(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish sign-in otp", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &SendOTPOutput{Success: true}, nil
}
