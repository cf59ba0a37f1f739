package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

var ErrNATSURLRequired = errors.New("messaging: nats url is required")

// natsMsgIDHeader carries the publisher's message id since core NATS has none.
const natsMsgIDHeader = "Nats-Msg-Id"

type NATSConfig struct {
	URL     string
	Options []nats.Option
}

type NATS struct {
	conn *nats.Conn
	ids  func() string

	mu     sync.Mutex
	subs   []*nats.Subscription
	closed bool
}

// NewNATS connects to URL. Published messages are stamped with a unique id
// header so consumers see a stable ID.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn, ids: nats.NewInbox}, nil
}

func (n *NATS) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	subs := n.subs
	n.subs = nil
	n.mu.Unlock()

	var err error
	for _, sub := range subs {
		err = errors.Join(err, sub.Drain())
	}
	err = errors.Join(err, n.conn.Drain())
	n.conn.Close()
	return err
}

func (n *NATS) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}

	id := n.ids()
	nm := nats.NewMsg(destination)
	nm.Data = msg.Body
	nm.Header.Set(natsMsgIDHeader, id)
	for _, h := range msg.Headers {
		if h.Key != "" {
			nm.Header.Add(h.Key, string(h.Value))
		}
	}

	if err := n.conn.PublishMsg(nm); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nats publish: %w", err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nats flush: %w", err)
	}

	return PublishResult{MessageID: id, Topic: destination, Timestamp: time.Now()}, nil
}

// Consume joins the queue group named by WithGroup. Core NATS is at-most-once:
// Nack cannot redeliver.
func (n *NATS) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	co := newConsumeOptions(opts...)
	switch {
	case source == "":
		return ErrDestinationRequired
	case handler == nil:
		return ErrHandlerRequired
	}

	concurrency := concurrencyOrDefault(co.concurrency, 1)
	msgs := make(chan *nats.Msg, max(co.maxInFlight, concurrency))

	sub, err := n.conn.QueueSubscribe(source, co.group, func(m *nats.Msg) {
		select {
		case msgs <- m:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("messaging: nats subscribe: %w", err)
	}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return errors.Join(ErrClosed, sub.Unsubscribe())
	}
	n.subs = append(n.subs, sub)
	n.mu.Unlock()

	var wg sync.WaitGroup
	for range concurrency {
		wg.Go(func() {
			for m := range msgs {
				wrapped := &natsMessage{msg: m, receivedAt: time.Now()}
				// core NATS ack is a no-op so deliver cannot fail here
				_ = deliver(ctx, "nats", handler, wrapped, co.autoAck)
			}
		})
	}

	<-ctx.Done()
	drainErr := sub.Drain()
	close(msgs)
	wg.Wait()

	return errors.Join(ctx.Err(), drainErr)
}

type natsMessage struct {
	responder
	msg        *nats.Msg
	receivedAt time.Time
}

func (m *natsMessage) Body() []byte         { return m.msg.Data }
func (m *natsMessage) Key() []byte          { return nil }
func (m *natsMessage) ID() string           { return m.msg.Header.Get(natsMsgIDHeader) }
func (m *natsMessage) Topic() string        { return m.msg.Subject }
func (m *natsMessage) Timestamp() time.Time { return m.receivedAt }

func (m *natsMessage) Headers() []Header {
	var out []Header
	for k, values := range m.msg.Header {
		for _, v := range values {
			out = append(out, Header{Key: k, Value: []byte(v)})
		}
	}
	return out
}

func (m *natsMessage) Ack(ctx context.Context) error {
	return m.respond(ctx, func() error { return nil })
}

func (m *natsMessage) Nack(ctx context.Context) error {
	return m.respond(ctx, func() error { return nil })
}
