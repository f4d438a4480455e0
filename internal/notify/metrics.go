package notify

import (
	"context"

	"github.com/imrishuroy/fybyshop/internal/aws"
	"github.com/imrishuroy/fybyshop/internal/checkout"
)

// OrderMetrics records business metrics for created orders.
type OrderMetrics interface {
	RecordOrderCreated(ctx context.Context, total int64, paymentMethod string) error
}

var _ OrderMetrics = (*aws.Metrics)(nil)

// MetricsSink turns OrderCreated events into metrics.
func MetricsSink(m OrderMetrics) checkout.EventSink {
	return checkout.EventSinkFunc(func(ctx context.Context, ev checkout.OrderCreatedEvent) error {
		return m.RecordOrderCreated(ctx, ev.Order.Total, ev.Order.PaymentMethod)
	})
}
