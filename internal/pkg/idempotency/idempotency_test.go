package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(t *testing.T) (*StateTracker, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client), s
}

func TestExec(t *testing.T) {
	t.Run("RunsOnce", func(t *testing.T) {
		tr, _ := newTracker(t)
		calls := 0
		fn := func(context.Context) error { calls++; return nil }

		require.NoError(t, tr.Exec(t.Context(), "k", fn))
		assert.ErrorIs(t, tr.Exec(t.Context(), "k", fn), ErrAlreadyCompleted)
		assert.Equal(t, 1, calls)
	})

	t.Run("FailureIsRemembered", func(t *testing.T) {
		tr, s := newTracker(t)
		boom := errors.New("boom")

		err := tr.Exec(t.Context(), "k", func(context.Context) error { return boom }, WithStateTTL(time.Minute))
		assert.ErrorIs(t, err, boom)

		raw, err := s.Get("idempotency:k")
		require.NoError(t, err)
		assert.Equal(t, "failed", raw)

		err = tr.Exec(t.Context(), "k", func(context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrAlreadyFailed)
	})

	t.Run("InProgress", func(t *testing.T) {
		tr, _ := newTracker(t)

		state, err := tr.Acquire(t.Context(), "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, StateNone, state)

		err = tr.Exec(t.Context(), "k", func(context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrAlreadyInProgress)
	})

	t.Run("StateExpires", func(t *testing.T) {
		tr, s := newTracker(t)
		fn := func(context.Context) error { return nil }

		require.NoError(t, tr.Exec(t.Context(), "k", fn, WithStateTTL(time.Second)))
		s.FastForward(2 * time.Second)
		require.NoError(t, tr.Exec(t.Context(), "k", fn))
	})

	t.Run("InvalidState", func(t *testing.T) {
		tr, s := newTracker(t)
		require.NoError(t, s.Set("idempotency:k", "weird"))

		_, err := tr.Acquire(t.Context(), "k", time.Minute)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}
