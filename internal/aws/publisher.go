package aws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// ErrNoQueue is returned when a Publisher has no queue URL configured.
var ErrNoQueue = errors.New("publisher: queue url not configured")

// Publisher wraps an SQS client and a queue URL.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// PublishJSON marshals payload and sends it as one message. Attributes are sent as
// String message attributes; empty values are skipped since SQS rejects them.
func (p *Publisher) PublishJSON(ctx context.Context, payload any, attributes map[string]string) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal message: %w", err)
	}
	return p.Send(ctx, string(body), attributes)
}

// Send sends a raw message body and returns the SQS message id.
func (p *Publisher) Send(ctx context.Context, messageBody string, attributes map[string]string) (string, error) {
	if p.QueueURL == "" {
		return "", ErrNoQueue
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    sdkaws.String(p.QueueURL),
		MessageBody: sdkaws.String(messageBody),
	}
	if attrs := messageAttributes(attributes); len(attrs) > 0 {
		input.MessageAttributes = attrs
	}

	out, err := p.SQS.SendMessage(ctx, input)
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	if out == nil || out.MessageId == nil {
		return "", nil
	}
	return *out.MessageId, nil
}

func messageAttributes(attributes map[string]string) map[string]sqstypes.MessageAttributeValue {
	keys := make([]string, 0, len(attributes))
	for k, v := range attributes {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make(map[string]sqstypes.MessageAttributeValue, len(keys))
	for _, k := range keys {
		out[k] = sqstypes.MessageAttributeValue{
			DataType:    sdkaws.String("String"),
			StringValue: sdkaws.String(attributes[k]),
		}
	}
	return out
}
