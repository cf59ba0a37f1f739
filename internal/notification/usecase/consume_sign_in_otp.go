package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/shandysiswandi/twostep/internal/pkg/idempotency"
	"github.com/shandysiswandi/twostep/internal/pkg/mail"
)

const signInOTPSubject = "Your sign-in code"

const signInOTPBody = `<p>Your {{.app_name}} sign-in code is</p>
<p style="font-size:24px;letter-spacing:4px"><strong>{{.otp}}</strong></p>
<p>It expires in {{.minutes}} minutes. If you did not try to sign in, you can ignore this email.</p>
<p>Need help? Contact {{.support_email}}.</p>
<p>&copy; {{.year}} {{.app_name}}</p>`

type ConsumeSignInOTPInput struct {
	MessageID string
	Email     string `validate:"required,email"`
	OTP       string `validate:"required,otc"`
	Type      string `validate:"required"`
	ExpiresAt int64  `validate:"required,gt=0"`
}

// ConsumeSignInOTP emails the sign-in code. Redelivered messages are sent once.
// Malformed messages are dropped; only delivery failures are returned.
func (s *Usecase) ConsumeSignInOTP(ctx context.Context, in ConsumeSignInOTPInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeSignInOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	key := "notification:sign-in-otp:" + in.Email + ":" + strconv.FormatInt(in.ExpiresAt, 10)
	if in.MessageID != "" {
		key = "notification:sign-in-otp:" + in.MessageID
	}

	err := s.idempotency.Exec(ctx, key, func(ctx context.Context) error {
		return s.sendSignInOTP(ctx, in)
	}, idempotency.WithStateTTL(s.idempotencyTTL()))
	switch {
	case errors.Is(err, idempotency.ErrAlreadyCompleted), errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.InfoContext(ctx, "sign-in otp email already handled", "email", in.Email, "state", err.Error())
		return nil
	case errors.Is(err, idempotency.ErrAlreadyFailed):
		slog.WarnContext(ctx, "sign-in otp email previously failed", "email", in.Email)
		return nil
	case err != nil:
		slog.ErrorContext(ctx, "failed to send sign-in otp email", "email", in.Email, "error", err)
		return err
	}

	return nil
}

func (s *Usecase) sendSignInOTP(ctx context.Context, in ConsumeSignInOTPInput) error {
	minutes := int(time.Unix(in.ExpiresAt, 0).Sub(s.clock.Now()).Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}

	data := s.baseEmailTemplateData()
	data["otp"] = in.OTP
	data["minutes"] = minutes

	body, err := s.renderTemplate("sign_in_otp", signInOTPBody, data)
	if err != nil {
		return err
	}

	return s.repoMail.Send(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  signInOTPSubject,
		HTMLBody: body,
	})
}
