package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"github.com/shandysiswandi/twostep/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyMail struct {
	failures int
	calls    int
}

func (f *flakyMail) Send(context.Context, mail.Message) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("smtp: 421 try again")
	}
	return nil
}

func (f *flakyMail) Close() error { return nil }

func TestMail_Send(t *testing.T) {
	t.Run("RetriesUntilSuccess", func(t *testing.T) {
		client := &flakyMail{failures: 2}
		m := New(Config{Client: client, Instrument: instrument.NewNoop(), Backoff: time.Millisecond})

		require.NoError(t, m.Send(t.Context(), mail.Message{To: []string{"a@b.com"}}))
		assert.Equal(t, 3, client.calls)
	})

	t.Run("GivesUpAfterAttempts", func(t *testing.T) {
		client := &flakyMail{failures: 10}
		m := New(Config{Client: client, Instrument: instrument.NewNoop(), Backoff: time.Millisecond})

		err := m.Send(t.Context(), mail.Message{To: []string{"a@b.com"}})
		assert.ErrorContains(t, err, "421 try again")
		assert.Equal(t, 3, client.calls)
	})
}
