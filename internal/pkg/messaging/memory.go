package messaging

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

var ErrMemoryBufferFull = errors.New("messaging: memory buffer is full")

const (
	defaultMemoryBuffer       = 256
	defaultMemoryRedeliveries = 3
)

type MemoryConfig struct {
	// Buffer is the per-group queue size.
	Buffer int
	// MaxRedeliveries bounds how often a nacked message is queued again.
	MaxRedeliveries int
}

// Memory is an in-process broker for local runs and tests. Messages published
// before any group consumes a destination are dropped.
type Memory struct {
	buffer          int
	maxRedeliveries int
	seq             atomic.Uint64

	mu     sync.RWMutex
	groups map[string]map[string]chan *memoryMessage
	closed bool
	done   chan struct{}
}

func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultMemoryBuffer
	}
	if cfg.MaxRedeliveries <= 0 {
		cfg.MaxRedeliveries = defaultMemoryRedeliveries
	}

	return &Memory{
		buffer:          cfg.Buffer,
		maxRedeliveries: cfg.MaxRedeliveries,
		groups:          map[string]map[string]chan *memoryMessage{},
		done:            make(chan struct{}),
	}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return PublishResult{}, ErrClosed
	}

	res := PublishResult{
		MessageID: "mem-" + strconv.FormatUint(m.seq.Add(1), 10),
		Topic:     destination,
		Timestamp: time.Now(),
	}

	var err error
	for group, ch := range m.groups[destination] {
		mm := &memoryMessage{
			broker:  m,
			queue:   ch,
			id:      res.MessageID,
			topic:   destination,
			body:    append([]byte(nil), msg.Body...),
			key:     append([]byte(nil), msg.Key...),
			headers: append([]Header(nil), msg.Headers...),
			at:      res.Timestamp,
		}
		select {
		case ch <- mm:
		default:
			err = errors.Join(err, errors.New(group+": "+ErrMemoryBufferFull.Error()))
		}
	}
	return res, err
}

func (m *Memory) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	co := newConsumeOptions(opts...)
	switch {
	case source == "":
		return ErrDestinationRequired
	case handler == nil:
		return ErrHandlerRequired
	}

	ch, err := m.join(source, co.group)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for range concurrencyOrDefault(co.concurrency, 1) {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-m.done:
					return
				case mm := <-ch:
					// memory ack and nack never fail
					_ = deliver(ctx, "memory", handler, mm, co.autoAck)
				}
			}
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrClosed
}

// join returns the queue shared by every consumer of group on topic.
func (m *Memory) join(topic, group string) (chan *memoryMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if m.groups[topic] == nil {
		m.groups[topic] = map[string]chan *memoryMessage{}
	}
	ch, ok := m.groups[topic][group]
	if !ok {
		ch = make(chan *memoryMessage, m.buffer)
		m.groups[topic][group] = ch
	}
	return ch, nil
}

type memoryMessage struct {
	responder
	broker   *Memory
	queue    chan *memoryMessage
	id       string
	topic    string
	body     []byte
	key      []byte
	headers  []Header
	at       time.Time
	attempts int
}

func (m *memoryMessage) Body() []byte         { return m.body }
func (m *memoryMessage) Key() []byte          { return m.key }
func (m *memoryMessage) Headers() []Header    { return m.headers }
func (m *memoryMessage) ID() string           { return m.id }
func (m *memoryMessage) Topic() string        { return m.topic }
func (m *memoryMessage) Timestamp() time.Time { return m.at }

func (m *memoryMessage) Ack(ctx context.Context) error {
	return m.respond(ctx, func() error { return nil })
}

// Nack queues a fresh copy unless the redelivery budget is spent or the queue
// is full; either way the message is then dropped.
func (m *memoryMessage) Nack(ctx context.Context) error {
	return m.respond(ctx, func() error {
		if m.attempts >= m.broker.maxRedeliveries {
			return nil
		}
		again := &memoryMessage{
			broker:   m.broker,
			queue:    m.queue,
			id:       m.id,
			topic:    m.topic,
			body:     m.body,
			key:      m.key,
			headers:  m.headers,
			at:       m.at,
			attempts: m.attempts + 1,
		}
		select {
		case m.queue <- again:
		default:
		}
		return nil
	})
}
