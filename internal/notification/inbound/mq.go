package inbound

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/twostep/internal/notification/usecase"
	"github.com/shandysiswandi/twostep/internal/pkg/config"
	"github.com/shandysiswandi/twostep/internal/pkg/goroutine"
	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"github.com/shandysiswandi/twostep/internal/pkg/messaging"
	"github.com/shandysiswandi/twostep/internal/pkg/uid"
	"github.com/shandysiswandi/twostep/internal/shared/event"
)

type uc interface {
	ConsumeSignInOTP(ctx context.Context, in usecase.ConsumeSignInOTPInput) error
}

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	consumer messaging.Consumer,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	h := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enabled := cfg.GetArray("modules.notification.consumer_names")

	consumers := []struct {
		name    string
		topic   string // destination the publisher sends to
		handler messaging.Handler
	}{
		{
			name:    event.AuthoritySignInOTPConsumerNotification,
			topic:   event.AuthoritySignInOTPDestination,
			handler: h.SignInOTPNotification,
		},
	}

	for _, c := range consumers {
		if !slices.Contains(enabled, c.name) {
			continue
		}

		routine.Go(ctx, func(pCtx context.Context) error {
			slog.InfoContext(ctx, "Running job for handling consumer", "consumer", c.name)
			err := consumer.Consume(pCtx,
				c.topic,
				c.handler,
				messaging.WithGroup(c.name),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(10),
				messaging.WithMaxInFlight(10),
			)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
}
