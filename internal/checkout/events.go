package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/imrishuroy/fybyshop/internal/orders"
)

// EventOrderCreated is the type of the event published after an order is stored.
const EventOrderCreated = "OrderCreated"

// OrderCreatedEvent is emitted once per created order.
type OrderCreatedEvent struct {
	Type       string       `json:"type"`
	Order      orders.Order `json:"order"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// EventSink receives post-commit events. Failures never undo the order.
type EventSink interface {
	Publish(ctx context.Context, ev OrderCreatedEvent) error
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ctx context.Context, ev OrderCreatedEvent) error

func (f EventSinkFunc) Publish(ctx context.Context, ev OrderCreatedEvent) error {
	return f(ctx, ev)
}

// MultiSink fans an event out to every sink and joins their errors.
type MultiSink []EventSink

func (m MultiSink) Publish(ctx context.Context, ev OrderCreatedEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
