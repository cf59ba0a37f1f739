package email

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"github.com/shandysiswandi/twostep/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultAttempts = 3
	defaultBackoff  = 200 * time.Millisecond
)

type Config struct {
	Client     mail.Mail
	Instrument instrument.Instrumentation
	// Attempts is the total number of sends tried, first one included.
	Attempts uint64
	Backoff  time.Duration
}

// Mail delivers messages and retries transient failures with exponential backoff.
type Mail struct {
	client   mail.Mail
	ins      instrument.Instrumentation
	attempts uint64
	backoff  time.Duration
}

func New(cfg Config) *Mail {
	if cfg.Attempts == 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = defaultBackoff
	}

	return &Mail{client: cfg.Client, ins: cfg.Instrument, attempts: cfg.Attempts, backoff: cfg.Backoff}
}

func (m *Mail) Send(ctx context.Context, msg mail.Message) error {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "Send")
	defer span.End()

	tries := 0
	b := retry.WithMaxRetries(m.attempts-1, retry.NewExponential(m.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		tries++
		if err := m.client.Send(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})

	span.SetAttributes(attribute.Int("mail.attempts", tries))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
