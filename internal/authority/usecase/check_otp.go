package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/twostep/internal/authority/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/goerror"
)

type CheckOTPInput struct {
	Email string `validate:"required,email"`
	Type  string `validate:"required"`
	OTP   string `validate:"required"`
}

type CheckOTPOutput struct {
	Success bool
}

// CheckOTP reports whether the code matches without consuming it.
func (s *Usecase) CheckOTP(ctx context.Context, in CheckOTPInput) (*CheckOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "CheckOTP")
	defer span.End()

	in.Email = normalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if !entity.ValidOTPType(in.Type) {
		return nil, goerror.NewInvalidInput(nil, "type", "type must be sign-in")
	}

	ok, err := s.matchOTP(ctx, in.Type, in.Email, in.OTP, false)
	if err != nil {
		return nil, goerror.NewServer(err)
	}

	return &CheckOTPOutput{Success: ok}, nil
}

// matchOTP checks code against the stored record in one atomic step. A miss
// counts one attempt and the record is dropped once the limit is reached.
// With consume set, a matching record is deleted so it cannot be reused.
func (s *Usecase) matchOTP(ctx context.Context, otpType, email, code string, consume bool) (bool, error) {
	digest, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp", "email", email, "error", err)
		return false, err
	}

	res, err := s.repoCache.CheckOTP(ctx, otpType, email, string(digest), s.allowedAttempts(), consume)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check otp", "email", email, "error", err)
		return false, err
	}

	if res != entity.OTPMatch {
		slog.WarnContext(ctx, "otp rejected", "email", email, "type", otpType, "result", string(res))
		return false, nil
	}
	return true, nil
}
