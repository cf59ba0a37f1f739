package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/twostep/internal/identity/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/goerror"
)

type SendLoginOTPInput struct {
	Channel entity.Channel
}

// SendLoginOTP issues a sign-in code on the chosen channel for the pending session.
func (s *Usecase) SendLoginOTP(ctx context.Context, in SendLoginOTPInput) error {
	ctx, span := s.startSpan(ctx, "SendLoginOTP")
	defer span.End()

	if in.Channel != entity.ChannelEmail && in.Channel != entity.ChannelSMS {
		return goerror.NewInvalidInput(nil, "channel", "channel must be email or sms")
	}

	ps := s.repoPending.Get(ctx)
	if ps == nil {
		return goerror.NewBusiness(MsgSessionExpired, goerror.CodeUnauthorized)
	}

	var err error
	switch in.Channel {
	case entity.ChannelEmail:
		err = s.sendEmailOTP(ctx, ps.Email)
	case entity.ChannelSMS:
		err = s.sendSMSOTP(ctx, ps.Email)
	}
	if err != nil {
		s.count(ctx, s.otpIssued, in.Channel, "failed")
		return err
	}

	s.count(ctx, s.otpIssued, in.Channel, "ok")
	return nil
}

func (s *Usecase) sendEmailOTP(ctx context.Context, email string) error {
	ok, err := s.repoAuthority.SendOTP(ctx, email, entity.OTPTypeSignIn)
	if err != nil {
		slog.ErrorContext(ctx, "failed to authority send otp", "email", email, "error", err)
		return goerror.NewBusiness(MsgSendFailed, goerror.CodeInternal)
	}
	if !ok {
		slog.WarnContext(ctx, "authority rejected send otp", "email", email)
		return goerror.NewBusiness(MsgSendFailed, goerror.CodeInternal)
	}

	return nil
}

func (s *Usecase) sendSMSOTP(ctx context.Context, email string) error {
	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate sms otp", "email", email, "error", err)
		return goerror.NewBusiness(MsgSendFailed, goerror.CodeInternal)
	}

	now := s.clock.Now()
	if err := s.repoDB.ReplaceVerification(ctx, entity.Verification{
		ID:         s.uuid.Generate(),
		Identifier: entity.SMSIdentifier(email),
		Value:      code + ":0",
		ExpiresAt:  now.Add(s.smsCodeTTL()),
		CreatedAt:  now,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo replace verification", "email", email, "error", err)
		return goerror.NewBusiness(MsgSendFailed, goerror.CodeInternal)
	}

	// mock delivery
	slog.InfoContext(ctx, "Login OTP (SMS mock)", "email", email, "otp", code)

	return nil
}
