package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/twostep/internal/identity/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/goerror"
	"github.com/shandysiswandi/twostep/internal/pkg/otp"
)

const minCodeLength = 6

type VerifyLoginOTPInput struct {
	Code    string
	Channel entity.Channel
}

type VerifyLoginOTPOutput struct {
	Email   string
	Channel entity.Channel
}

// VerifyLoginOTP checks the submitted code for the pending session and clears
// the session on success. It does not sign the user in.
func (s *Usecase) VerifyLoginOTP(ctx context.Context, in VerifyLoginOTPInput) (*VerifyLoginOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyLoginOTP")
	defer span.End()

	if in.Channel != entity.ChannelEmail && in.Channel != entity.ChannelSMS {
		return nil, goerror.NewInvalidInput(nil, "channel", "channel must be email or sms")
	}

	ps := s.repoPending.Get(ctx)
	if ps == nil {
		return nil, goerror.NewBusiness(MsgSessionExpired, goerror.CodeUnauthorized)
	}

	code := otp.Normalize(in.Code)
	if len(code) < minCodeLength {
		return nil, goerror.NewInvalidFormat(MsgCodeRequired)
	}

	var err error
	switch in.Channel {
	case entity.ChannelEmail:
		err = s.verifyEmailOTP(ctx, ps.Email, code)
	case entity.ChannelSMS:
		err = s.verifySMSOTP(ctx, ps.Email, code)
	}
	if err != nil {
		s.count(ctx, s.otpVerified, in.Channel, "failed")
		return nil, err
	}

	if err := s.repoPending.Clear(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to clear pending session", "email", ps.Email, "error", err)
		s.count(ctx, s.otpVerified, in.Channel, "failed")
		return nil, goerror.NewBusiness(MsgSomethingWrong, goerror.CodeInternal)
	}

	s.count(ctx, s.otpVerified, in.Channel, "ok")
	return &VerifyLoginOTPOutput{Email: ps.Email, Channel: in.Channel}, nil
}

func (s *Usecase) verifyEmailOTP(ctx context.Context, email, code string) error {
	ok, err := s.repoAuthority.CheckOTP(ctx, email, entity.OTPTypeSignIn, code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to authority check otp", "email", email, "error", err)
		return goerror.NewBusiness(MsgInvalidCode, goerror.CodeUnauthorized)
	}
	if !ok {
		slog.WarnContext(ctx, "authority rejected otp", "email", email)
		return goerror.NewBusiness(MsgInvalidCode, goerror.CodeUnauthorized)
	}

	return nil
}

func (s *Usecase) verifySMSOTP(ctx context.Context, email, code string) error {
	errInvalid := goerror.NewBusiness(MsgInvalidCode, goerror.CodeUnauthorized)

	v, err := s.repoDB.FindLatestVerification(ctx, entity.SMSIdentifier(email))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "sms otp not found", "email", email)
		return errInvalid
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find latest verification", "email", email, "error", err)
		return errInvalid
	}

	if v.Expired(s.clock.Now()) {
		slog.WarnContext(ctx, "sms otp expired", "email", email, "verification_id", v.ID)
		return errInvalid
	}

	if !otp.Equal(v.Code(), code) {
		slog.WarnContext(ctx, "sms otp not match", "email", email, "verification_id", v.ID)
		return errInvalid
	}

	if err := s.repoDB.DeleteVerification(ctx, v.ID); err != nil {
		slog.ErrorContext(ctx, "failed to repo delete verification", "verification_id", v.ID, "error", err)
		return goerror.NewBusiness(MsgSomethingWrong, goerror.CodeInternal)
	}

	return nil
}
