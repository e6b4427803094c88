package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atinyakov/TodoKeeper/internal/models"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

var resetEvent = models.PasswordReset{
	Email:     "ann@example.com",
	Token:     "tok-1",
	ExpiresAt: time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC),
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	require.NoError(t, n.NotifyPasswordReset(context.Background(), resetEvent))

	entries := logs.FilterMessage("password reset requested").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ann@example.com", entries[0].ContextMap()["email"])
	assert.Equal(t, "tok-1", entries[0].ContextMap()["token"])
}

func TestAMQPNotifier_Publish(t *testing.T) {
	ch := &fakeChannel{}
	n := &AMQPNotifier{ch: ch, exchange: "todokeeper.auth"}

	require.NoError(t, n.NotifyPasswordReset(context.Background(), resetEvent))
	assert.Equal(t, "todokeeper.auth", ch.exchange)
	assert.Equal(t, RoutingKeyPasswordReset, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)

	var got models.PasswordReset
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, resetEvent.Email, got.Email)
	assert.Equal(t, resetEvent.Token, got.Token)
	assert.True(t, resetEvent.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, n.Close())
	assert.True(t, ch.closed)
}

func TestAMQPNotifier_PublishError(t *testing.T) {
	n := &AMQPNotifier{ch: &fakeChannel{err: errors.New("channel closed")}, exchange: "x"}
	err := n.NotifyPasswordReset(context.Background(), resetEvent)
	assert.ErrorContains(t, err, "publish reset event")
}
