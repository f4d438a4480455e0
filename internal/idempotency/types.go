package idempotency

import "time"

// Status values for idempotency entries
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// Record is the shape persisted in the idempotency DynamoDB table. Ref points at
// the entity the key produced (an order id for checkout submissions).
type Record struct {
	Key       string    `dynamodbav:"idempotency_key"` // PK
	Status    string    `dynamodbav:"status"`
	Ref       string    `dynamodbav:"ref,omitempty"`
	Result    string    `dynamodbav:"result,omitempty"`
	Note      string    `dynamodbav:"note,omitempty"`
	Attempts  int       `dynamodbav:"attempts"`
	CreatedAt time.Time `dynamodbav:"created_at"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
	ExpiresAt int64     `dynamodbav:"expires_at"` // TTL epoch seconds
}
