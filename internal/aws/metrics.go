package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric names emitted by the storefront.
const (
	MetricOrdersCreated = "OrdersCreated"
	MetricOrderRevenue  = "OrderRevenue"
)

// Metrics publishes business metrics to CloudWatch.
type Metrics struct {
	client    CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

// NewMetrics returns a Metrics bound to a CloudWatch namespace.
func NewMetrics(client CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
		nowFunc:   time.Now,
	}
}

// RecordOrderCreated emits one OrdersCreated count and the order total as revenue,
// both dimensioned by payment method.
func (m *Metrics) RecordOrderCreated(ctx context.Context, total int64, paymentMethod string) error {
	now := m.nowFunc()
	dims := []cwtypes.Dimension{
		{Name: sdkaws.String("PaymentMethod"), Value: sdkaws.String(paymentMethod)},
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String(MetricOrdersCreated),
				Dimensions: dims,
				Timestamp:  &now,
				Unit:       cwtypes.StandardUnitCount,
				Value:      sdkaws.Float64(1),
			},
			{
				MetricName: sdkaws.String(MetricOrderRevenue),
				Dimensions: dims,
				Timestamp:  &now,
				Unit:       cwtypes.StandardUnitNone,
				Value:      sdkaws.Float64(float64(total)),
			},
		},
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
