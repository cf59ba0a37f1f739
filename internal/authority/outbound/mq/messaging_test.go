package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"github.com/shandysiswandi/twostep/internal/pkg/messaging"
	"github.com/shandysiswandi/twostep/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publisherFunc func(ctx context.Context, destination string, msg messaging.OutgoingMessage) (messaging.PublishResult, error)

func (f publisherFunc) Publish(ctx context.Context, destination string, msg messaging.OutgoingMessage) (messaging.PublishResult, error) {
	return f(ctx, destination, msg)
}

func TestMessaging_PublishSignInOTP(t *testing.T) {
	var (
		gotDest string
		gotMsg  messaging.OutgoingMessage
	)
	m := NewMessaging(publisherFunc(func(_ context.Context, d string, msg messaging.OutgoingMessage) (messaging.PublishResult, error) {
		gotDest, gotMsg = d, msg
		return messaging.PublishResult{}, nil
	}), instrument.NewNoop())

	ctx := instrument.SetCorrelationID(t.Context(), "cid-1")
	err := m.PublishSignInOTP(ctx, event.AuthoritySignInOTPMessage{Email: "a@b.com", OTP: "123456", Type: "sign-in", ExpiresAt: 1700000300})
	require.NoError(t, err)

	assert.Equal(t, event.AuthoritySignInOTPDestination, gotDest)
	assert.Equal(t, []byte("a@b.com"), gotMsg.Key)
	require.Len(t, gotMsg.Headers, 1)
	assert.Equal(t, "cid-1", string(gotMsg.Headers[0].Value))

	var body event.AuthoritySignInOTPMessage
	require.NoError(t, json.Unmarshal(gotMsg.Body, &body))
	assert.Equal(t, "123456", body.OTP)
}

func TestMessaging_PublishError(t *testing.T) {
	m := NewMessaging(publisherFunc(func(context.Context, string, messaging.OutgoingMessage) (messaging.PublishResult, error) {
		return messaging.PublishResult{}, errors.New("broker down")
	}), instrument.NewNoop())

	err := m.PublishSignInOTP(t.Context(), event.AuthoritySignInOTPMessage{Email: "a@b.com"})
	assert.EqualError(t, err, "broker down")
}
