package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/imrishuroy/fybyshop/internal/aws"
)

var ErrMissingUser = errors.New("user id is required")

// Store encapsulates operations on the profiles table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{client: client, tableName: tableName, nowFunc: time.Now}
}

// Get fetches a profile. Returns (nil, nil) if the user has none yet.
func (s *Store) Get(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var p Profile
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &p, nil
}

// Update applies u to the user's profile, creating it on first use. email is
// the verified address from the auth token and always wins.
func (s *Store) Update(ctx context.Context, userID, email string, u Update) (*Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.nowFunc()
	if p == nil {
		p = &Profile{UserID: userID, CreatedAt: now}
	}
	if email != "" {
		p.Email = email
	}
	u.apply(p)
	p.UpdatedAt = now

	if err := s.put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) put(ctx context.Context, p *Profile) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put profile: %w", err)
	}
	return nil
}
