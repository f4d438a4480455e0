package aws_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalaws "github.com/imrishuroy/fybyshop/internal/aws"
	"github.com/imrishuroy/fybyshop/internal/aws/awsmock"
)

func TestPublisher_PublishJSON(t *testing.T) {
	mock := &awsmock.SQS{}
	p := internalaws.NewPublisher(mock, "https://sqs.local/orders")

	id, err := p.PublishJSON(context.Background(), map[string]string{"order_id": "o1"}, map[string]string{
		"order_id":       "o1",
		"correlation_id": "",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)

	sent := mock.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "https://sqs.local/orders", *sent[0].QueueUrl)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(*sent[0].MessageBody), &body))
	assert.Equal(t, "o1", body["order_id"])

	// empty attribute values are dropped
	assert.Len(t, sent[0].MessageAttributes, 1)
	assert.Equal(t, "o1", *sent[0].MessageAttributes["order_id"].StringValue)
}

func TestPublisher_NoQueue(t *testing.T) {
	p := internalaws.NewPublisher(&awsmock.SQS{}, "")
	_, err := p.Send(context.Background(), "{}", nil)
	assert.ErrorIs(t, err, internalaws.ErrNoQueue)
}

func TestPublisher_SendError(t *testing.T) {
	boom := errors.New("boom")
	p := internalaws.NewPublisher(&awsmock.SQS{Err: boom}, "q")
	_, err := p.Send(context.Background(), "{}", nil)
	assert.ErrorIs(t, err, boom)
}
