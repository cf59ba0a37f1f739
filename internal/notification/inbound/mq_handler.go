package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/twostep/internal/notification/usecase"
	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"github.com/shandysiswandi/twostep/internal/pkg/messaging"
	"github.com/shandysiswandi/twostep/internal/pkg/uid"
	"github.com/shandysiswandi/twostep/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID && len(headers[i].Value) > 0 {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// SignInOTPNotification delivers a sign-in code by email. The body carries the
// code itself so it is never logged.
func (h *MQHandler) SignInOTPNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "SignInOTPNotification")
	defer span.End()

	slog.InfoContext(ctx, "consume: sign-in otp notification", "msg_id", msg.ID())

	var payload event.AuthoritySignInOTPMessage
	if err := json.Unmarshal(msg.Body(), &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of sign-in otp notification", "msg_id", msg.ID(), "error", err)
		return nil
	}

	if err := h.uc.ConsumeSignInOTP(ctx, usecase.ConsumeSignInOTPInput{
		MessageID: msg.ID(),
		Email:     payload.Email,
		OTP:       payload.OTP,
		Type:      payload.Type,
		ExpiresAt: payload.ExpiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume sign-in otp", "msg_id", msg.ID(), "error", err)
		return err
	}

	return nil
}
