package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu   sync.Mutex
	msgs []Message
	fail int
	got  chan struct{}
}

func newCollector() *collector { return &collector{got: make(chan struct{}, 16)} }

func (c *collector) handle(_ context.Context, msg Message) error {
	c.mu.Lock()
	c.msgs = append(c.msgs, msg)
	fail := c.fail > 0
	if fail {
		c.fail--
	}
	c.mu.Unlock()
	c.got <- struct{}{}
	if fail {
		return errors.New("try again")
	}
	return nil
}

func (c *collector) wait(t *testing.T, n int) {
	t.Helper()
	for range n {
		select {
		case <-c.got:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for message")
		}
	}
}

func startConsumer(t *testing.T, m *Memory, topic, group string, h Handler) {
	t.Helper()

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- m.Consume(ctx, topic, h, WithGroup(group), WithAutoAck(true)) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool {
		m.mu.RLock()
		defer m.mu.RUnlock()
		_, ok := m.groups[topic][group]
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestMemory_PublishConsume(t *testing.T) {
	m := NewMemory(MemoryConfig{})
	t.Cleanup(func() { _ = m.Close() })

	a, b := newCollector(), newCollector()
	startConsumer(t, m, "orders", "billing", a.handle)
	startConsumer(t, m, "orders", "shipping", b.handle)

	res, err := m.Publish(t.Context(), "orders", OutgoingMessage{
		Body:    []byte(`{"id":1}`),
		Key:     []byte("k"),
		Headers: []Header{{Key: "cID", Value: []byte("c-1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "mem-1", res.MessageID)

	a.wait(t, 1)
	b.wait(t, 1)
	assert.Equal(t, res.MessageID, a.msgs[0].ID())
	assert.Equal(t, []byte(`{"id":1}`), a.msgs[0].Body())
	assert.Equal(t, []Header{{Key: "cID", Value: []byte("c-1")}}, b.msgs[0].Headers())
	assert.Equal(t, "orders", b.msgs[0].Topic())
}

func TestMemory_NackRedelivers(t *testing.T) {
	m := NewMemory(MemoryConfig{MaxRedeliveries: 2})
	t.Cleanup(func() { _ = m.Close() })

	c := newCollector()
	c.fail = 10
	startConsumer(t, m, "jobs", "w", c.handle)

	_, err := m.Publish(t.Context(), "jobs", OutgoingMessage{Body: []byte("x")})
	require.NoError(t, err)

	c.wait(t, 3)
	select {
	case <-c.got:
		t.Fatal("message delivered after redelivery budget")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, c.msgs[0].ID(), c.msgs[2].ID())
}

func TestMemory_Errors(t *testing.T) {
	m := NewMemory(MemoryConfig{Buffer: 1})

	_, err := m.Publish(t.Context(), "", OutgoingMessage{})
	require.ErrorIs(t, err, ErrDestinationRequired)
	require.ErrorIs(t, m.Consume(t.Context(), "t", nil), ErrHandlerRequired)

	// no consumer group yet: dropped without error
	_, err = m.Publish(t.Context(), "t", OutgoingMessage{})
	require.NoError(t, err)

	_, err = m.join("t", "g")
	require.NoError(t, err)
	_, err = m.Publish(t.Context(), "t", OutgoingMessage{})
	require.NoError(t, err)
	_, err = m.Publish(t.Context(), "t", OutgoingMessage{})
	require.ErrorContains(t, err, ErrMemoryBufferFull.Error())

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	_, err = m.Publish(t.Context(), "t", OutgoingMessage{})
	require.ErrorIs(t, err, ErrClosed)
}

type fakeDelivery struct {
	responder
	acked, nacked int
}

func (f *fakeDelivery) Body() []byte         { return nil }
func (f *fakeDelivery) Key() []byte          { return nil }
func (f *fakeDelivery) Headers() []Header    { return nil }
func (f *fakeDelivery) ID() string           { return "id" }
func (f *fakeDelivery) Topic() string        { return "t" }
func (f *fakeDelivery) Timestamp() time.Time { return time.Time{} }

func (f *fakeDelivery) Ack(ctx context.Context) error {
	return f.respond(ctx, func() error { f.acked++; return nil })
}

func (f *fakeDelivery) Nack(ctx context.Context) error {
	return f.respond(ctx, func() error { f.nacked++; return nil })
}

func TestDeliver(t *testing.T) {
	t.Run("AckOnSuccess", func(t *testing.T) {
		d := &fakeDelivery{}
		require.NoError(t, deliver(t.Context(), "test", func(context.Context, Message) error { return nil }, d, true))
		assert.Equal(t, 1, d.acked)
	})

	t.Run("NackOnPanic", func(t *testing.T) {
		d := &fakeDelivery{}
		require.NoError(t, deliver(t.Context(), "test", func(context.Context, Message) error { panic("boom") }, d, true))
		assert.Equal(t, 1, d.nacked)
	})

	t.Run("HandlerAnswered", func(t *testing.T) {
		d := &fakeDelivery{}
		err := deliver(t.Context(), "test", func(ctx context.Context, m Message) error {
			return m.Ack(ctx)
		}, d, true)
		require.NoError(t, err)
		assert.Equal(t, 1, d.acked)
		assert.Zero(t, d.nacked)
	})

	t.Run("ManualAck", func(t *testing.T) {
		d := &fakeDelivery{}
		require.NoError(t, deliver(t.Context(), "test", func(context.Context, Message) error { return errors.New("x") }, d, false))
		assert.Zero(t, d.acked+d.nacked)
	})
}

func TestNewFromDriver(t *testing.T) {
	m, err := NewFromDriver(t.Context(), "memory", FactoryOptions{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, m)

	_, err = NewFromDriver(t.Context(), "kafka", FactoryOptions{})
	require.ErrorIs(t, err, ErrKafkaBrokersRequired)

	_, err = NewFromDriver(t.Context(), "rabbit", FactoryOptions{})
	require.ErrorIs(t, err, ErrUnknownDriver)
}
