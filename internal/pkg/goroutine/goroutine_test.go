package goroutine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	t.Run("CollectsErrors", func(t *testing.T) {
		g := NewManager(4)
		boom := errors.New("boom")

		assert.True(t, g.Go(t.Context(), func(context.Context) error { return nil }))
		assert.True(t, g.Go(t.Context(), func(context.Context) error { return boom }))
		assert.True(t, g.Go(t.Context(), func(context.Context) error { panic("x") }))

		err := g.Wait()
		require.ErrorIs(t, err, boom)
		require.ErrorIs(t, err, ErrPanic)

		assert.False(t, g.Go(t.Context(), func(context.Context) error { return nil }))
	})

	t.Run("Limit", func(t *testing.T) {
		g := NewManager(1)
		release := make(chan struct{})

		assert.True(t, g.Go(t.Context(), func(context.Context) error { <-release; return nil }))
		assert.False(t, g.Go(t.Context(), func(context.Context) error { return nil }))

		close(release)
		require.NoError(t, g.Wait())
	})

	t.Run("CanceledContextSkips", func(t *testing.T) {
		g := NewManager(0)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		ran := false
		g.Go(ctx, func(context.Context) error { ran = true; return nil })
		require.NoError(t, g.Wait())
		assert.False(t, ran)
	})
}
