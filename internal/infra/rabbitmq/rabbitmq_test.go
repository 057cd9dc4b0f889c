package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

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
}

func (f *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error { return nil }

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisherWithChannel(ch, "dealer.exchange", zap.NewNop())

	err := p.Publish(context.Background(), "order.approved", map[string]uint64{"orderId": 7})
	require.NoError(t, err)

	assert.Equal(t, "dealer.exchange", ch.exchange)
	assert.Equal(t, "order.approved", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)

	var msg struct {
		Pattern string            `json:"pattern"`
		Data    map[string]uint64 `json:"data"`
		ID      string            `json:"id"`
	}
	require.NoError(t, json.Unmarshal(ch.msg.Body, &msg))
	assert.Equal(t, "order.approved", msg.Pattern)
	assert.Equal(t, uint64(7), msg.Data["orderId"])
	assert.Equal(t, ch.msg.MessageId, msg.ID)
}

func TestPublisher_PublishErrors(t *testing.T) {
	ch := &fakeChannel{err: amqp.ErrClosed}
	p := newPublisherWithChannel(ch, "dealer.exchange", zap.NewNop())
	assert.ErrorIs(t, p.Publish(context.Background(), "x", nil), amqp.ErrClosed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, "x", nil), context.Canceled)
}

type fakeAcknowledger struct {
	acked, nacked int
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error { f.acked++; return nil }
func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked++
	return nil
}
func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error { return nil }

func TestDispatch(t *testing.T) {
	ack := &fakeAcknowledger{}
	deliveries := make(chan amqp.Delivery, 2)
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, RoutingKey: "push.ok", Body: []byte("a")}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, RoutingKey: "push.bad", Body: []byte("b")}
	close(deliveries)

	var seen []string
	handle := func(ctx context.Context, key string, body []byte) error {
		seen = append(seen, key)
		if key == "push.bad" {
			return errors.New("malformed")
		}
		return nil
	}

	err := dispatch(context.Background(), deliveries, handle, zap.NewNop())
	assert.Error(t, err)
	assert.Equal(t, []string{"push.ok", "push.bad"}, seen)
	assert.Equal(t, 1, ack.acked)
	assert.Equal(t, 1, ack.nacked)
}

func TestDispatch_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	deliveries := make(chan amqp.Delivery)

	done := make(chan error, 1)
	go func() {
		done <- dispatch(ctx, deliveries, func(context.Context, string, []byte) error { return nil }, zap.NewNop())
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("dispatch did not return after cancel")
	}
}
