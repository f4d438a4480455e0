package awsmock

import (
	"context"
	"fmt"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQS records every SendMessage call.
type SQS struct {
	mu       sync.Mutex
	Messages []*sqs.SendMessageInput
	Err      error
}

func (s *SQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.Messages = append(s.Messages, params)
	return &sqs.SendMessageOutput{MessageId: sdkaws.String(fmt.Sprintf("msg-%d", len(s.Messages)))}, nil
}

// Sent returns a snapshot of the recorded messages.
func (s *SQS) Sent() []*sqs.SendMessageInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*sqs.SendMessageInput(nil), s.Messages...)
}
