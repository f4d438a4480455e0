package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/imrishuroy/fybyshop/internal/aws"
	"github.com/imrishuroy/fybyshop/internal/idempotency"
)

// ErrInvalidStatus is returned by UpdateStatus for unknown statuses.
var ErrInvalidStatus = errors.New("invalid order status")

// ErrMissingSubmissionKey is returned by Create without a submission key.
var ErrMissingSubmissionKey = errors.New("submission key is required")

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	userIndex string
	keys      *idempotency.Store
	nowFunc   func() time.Time
	newID     func() string
}

// NewStore creates a new orders Store. userIndex is the GSI keyed by user_id;
// keys records which submission produced which order.
func NewStore(client aws.DynamoDBAPI, tableName, userIndex string, keys *idempotency.Store) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		userIndex: userIndex,
		keys:      keys,
		nowFunc:   time.Now,
		newID:     uuid.NewString,
	}
}

// Create validates and persists a new order, returning its id.
//
// The order and an idempotency record for submissionKey are written in one
// transaction. If the key was already used, the id of the order it created is
// returned instead, so a retried submission never produces a second order.
func (s *Store) Create(ctx context.Context, submissionKey string, order Order) (string, error) {
	if submissionKey == "" {
		return "", ErrMissingSubmissionKey
	}
	if err := Validate(order); err != nil {
		return "", err
	}

	now := s.nowFunc()
	order.OrderID = s.newID()
	order.CreatedAt = now
	order.UpdatedAt = now

	orderMap, err := attributevalue.MarshalMap(order)
	if err != nil {
		return "", fmt.Errorf("marshal order item: %w", err)
	}
	keyPut, err := s.keys.TransactPut(submissionKey, order.OrderID)
	if err != nil {
		return "", err
	}

	_, err = s.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			keyPut,
			{
				Put: &types.Put{
					TableName:           &s.tableName,
					Item:                orderMap,
					ConditionExpression: awsString("attribute_not_exists(order_id)"),
				},
			},
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			return s.existingOrder(ctx, submissionKey, err)
		}
		return "", fmt.Errorf("transact write: %w", err)
	}
	return order.OrderID, nil
}

func (s *Store) existingOrder(ctx context.Context, submissionKey string, cause error) (string, error) {
	rec, err := s.keys.Get(ctx, submissionKey)
	if err != nil {
		return "", fmt.Errorf("lookup submission after canceled transaction: %w", err)
	}
	if rec == nil || rec.Ref == "" {
		return "", fmt.Errorf("transaction canceled: %w", cause)
	}
	log.Printf("[orders] submission %s already created order %s", submissionKey, rec.Ref)
	return rec.Ref, nil
}

// Get fetches an order by order_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       orderKey(orderID),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// ListForUser returns the user's orders, newest first.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	input := &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              &s.userIndex,
		KeyConditionExpression: awsString("user_id = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userID},
		},
	}

	out := make([]Order, 0)
	for {
		page, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("query orders: %w", err)
		}
		var batch []Order
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal orders: %w", err)
		}
		out = append(out, batch...)
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = page.LastEvaluatedKey
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// UpdateStatus sets the order status. Returns false when the order does not exist.
func (s *Store) UpdateStatus(ctx context.Context, orderID, status string) (bool, error) {
	if !ValidStatus(status) {
		return false, ErrInvalidStatus
	}
	now := s.nowFunc()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:                &s.tableName,
		Key:                      orderKey(orderID),
		UpdateExpression:         awsString("SET #s = :new, updated_at = :ua"),
		ConditionExpression:      awsString("attribute_exists(order_id)"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new": &types.AttributeValueMemberS{Value: status},
			":ua":  &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return false, nil
		}
		return false, fmt.Errorf("update item: %w", err)
	}
	return true, nil
}

func orderKey(orderID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"order_id": &types.AttributeValueMemberS{Value: orderID},
	}
}

func awsString(s string) *string { return &s }
