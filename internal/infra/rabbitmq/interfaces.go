package rabbitmq

import "context"

type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, data any) error
}

// DeliveryHandler processes one message body. A returned error nacks the
// delivery without requeue.
type DeliveryHandler func(ctx context.Context, routingKey string, body []byte) error

type ConsumerInterface interface {
	Run(ctx context.Context, handle DeliveryHandler) error
}

var (
	_ PublisherInterface = (*Publisher)(nil)
	_ ConsumerInterface  = (*Consumer)(nil)
)
