package notify

import (
	"context"
	"fmt"

	"github.com/imrishuroy/fybyshop/internal/aws"
	"github.com/imrishuroy/fybyshop/internal/checkout"
)

// EventPublisher sends a JSON payload to a queue.
type EventPublisher interface {
	PublishJSON(ctx context.Context, payload any, attrs map[string]string) (string, error)
}

var _ EventPublisher = (*aws.Publisher)(nil)

// QueueSink forwards OrderCreated events to the notification queue, where the
// worker picks them up.
type QueueSink struct {
	pub EventPublisher
}

func NewQueueSink(pub EventPublisher) *QueueSink {
	return &QueueSink{pub: pub}
}

func (q *QueueSink) Publish(ctx context.Context, ev checkout.OrderCreatedEvent) error {
	_, err := q.pub.PublishJSON(ctx, ev, map[string]string{
		"event_type": ev.Type,
		"order_id":   ev.Order.OrderID,
	})
	if err != nil {
		return fmt.Errorf("publish %s for order %s: %w", ev.Type, ev.Order.OrderID, err)
	}
	return nil
}
