package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func newTestPublisher(ch *fakeChannel) *Publisher {
	return &Publisher{
		channel:  ch,
		exchange: "order.exchange",
		logger:   zap.NewNop(),
		now:      func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)

	err := p.Publish(context.Background(), "order.created", map[string]any{"orderId": 7})
	require.NoError(t, err)

	assert.Equal(t, "order.exchange", ch.exchange)
	assert.Equal(t, "order.created", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, time.Unix(1700000000, 0), ch.msg.Timestamp)

	_, err = uuid.Parse(ch.msg.MessageId)
	assert.NoError(t, err)

	var env struct {
		Pattern string         `json:"pattern"`
		Data    map[string]any `json:"data"`
		ID      string         `json:"id"`
	}
	require.NoError(t, json.Unmarshal(ch.msg.Body, &env))
	assert.Equal(t, "order.created", env.Pattern)
	assert.Equal(t, ch.msg.MessageId, env.ID)
	assert.EqualValues(t, 7, env.Data["orderId"])
}

func TestPublisher_PublishErrors(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() context.Context
		data any
		err  error
	}{
		{
			name: "channel failure",
			ctx:  context.Background,
			data: "x",
			err:  errors.New("channel closed"),
		},
		{
			name: "unmarshalable payload",
			ctx:  context.Background,
			data: make(chan int),
		},
		{
			name: "cancelled context",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			data: "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPublisher(&fakeChannel{err: tt.err})
			assert.Error(t, p.Publish(tt.ctx(), "order.created", tt.data))
		})
	}
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)
	p.Close()
	assert.True(t, ch.closed)
}
