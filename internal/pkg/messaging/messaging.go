// Package messaging publishes and consumes messages over NSQ, NATS, Kafka,
// Google Pub/Sub or an in-process broker behind one API.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/shandysiswandi/twostep/internal/pkg/stacktrace"
)

var (
	ErrDestinationRequired = errors.New("messaging: destination is required")
	ErrHandlerRequired     = errors.New("messaging: handler is required")
	ErrGroupRequired       = errors.New("messaging: consumer group is required")
	ErrClosed              = errors.New("messaging: client is closed")
)

type Messaging interface {
	io.Closer
	Publisher
	Consumer
}

type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

type Consumer interface {
	// Consume blocks until ctx is done or the broker fails.
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes one message. With auto ack a nil error acks and a non-nil
// error asks the broker to redeliver where it can.
type Handler func(ctx context.Context, msg Message) error

type OutgoingMessage struct {
	Body []byte
	// Key partitions on Kafka and orders on Pub/Sub. Other brokers ignore it.
	Key     []byte
	Headers []Header
}

type Header struct {
	Key   string
	Value []byte
}

type PublishResult struct {
	MessageID string
	Topic     string
	Timestamp time.Time
}

type Message interface {
	Body() []byte
	Key() []byte
	// Headers is empty on NSQ, which has no header support.
	Headers() []Header
	// ID is stable across redeliveries of the same message.
	ID() string
	Topic() string
	Timestamp() time.Time
	Ack(ctx context.Context) error
}

// Nackable messages can ask for redelivery.
type Nackable interface {
	Nack(ctx context.Context) error
}

// responder makes ack and nack idempotent; the first response wins.
type responder struct {
	done atomic.Bool
}

func (r *responder) respond(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.done.Swap(true) {
		return nil
	}
	return fn()
}

func (r *responder) responded() bool { return r.done.Load() }

type deliverable interface {
	Message
	Nackable
	responded() bool
}

// deliver runs handler on msg, turning a panic into an error, and acks or
// nacks when autoAck is set and the handler left the message unanswered.
// Only a failed ack or nack is returned.
func deliver(ctx context.Context, kind string, handler Handler, msg deliverable, autoAck bool) error {
	herr := func() (err error) {
		defer func() {
			if rvr := recover(); rvr != nil {
				slog.ErrorContext(ctx, "panic in messaging handler",
					"kind", kind,
					"panic", rvr,
					"stack", stacktrace.Frames(debug.Stack()),
				)
				err = fmt.Errorf("messaging: panic in %s handler: %v", kind, rvr)
			}
		}()
		return handler(ctx, msg)
	}()

	if herr != nil {
		slog.WarnContext(ctx, "messaging handler failed", "kind", kind, "msg_id", msg.ID(), "error", herr)
	}

	if !autoAck || msg.responded() {
		return nil
	}
	if herr != nil {
		return msg.Nack(ctx)
	}
	return msg.Ack(ctx)
}

func concurrencyOrDefault(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
