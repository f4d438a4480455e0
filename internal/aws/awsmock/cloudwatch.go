package awsmock

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
)

// CloudWatch records every PutMetricData call.
type CloudWatch struct {
	mu     sync.Mutex
	Inputs []*cloudwatch.PutMetricDataInput
	Err    error
}

func (c *CloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	c.Inputs = append(c.Inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

// Calls returns how many PutMetricData calls were recorded.
func (c *CloudWatch) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Inputs)
}
