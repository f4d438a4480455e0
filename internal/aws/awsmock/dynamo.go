// Package awsmock provides small in-memory stand-ins for the AWS clients used in tests.
// They understand only the expression shapes the stores in this module emit.
package awsmock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type table struct {
	pk    string
	order []string
	items map[string]map[string]types.AttributeValue
}

// Dynamo is an in-memory DynamoDB supporting PutItem, GetItem, UpdateItem, Query and
// TransactWriteItems with the condition expressions attribute_exists(x),
// attribute_not_exists(x) and "#n = :v".
type Dynamo struct {
	mu     sync.Mutex
	tables map[string]*table

	// Err, when set, is returned by every call.
	Err error

	PutCalls      int
	GetCalls      int
	UpdateCalls   int
	QueryCalls    int
	TransactCalls int
}

// NewDynamo returns an empty fake.
func NewDynamo() *Dynamo {
	return &Dynamo{tables: map[string]*table{}}
}

// CreateTable registers a table keyed by the given partition key attribute.
func (d *Dynamo) CreateTable(name, pk string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tables[name] = &table{pk: pk, items: map[string]map[string]types.AttributeValue{}}
}

// Item returns a stored item, or nil.
func (d *Dynamo) Item(tableName, key string) map[string]types.AttributeValue {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.tables[tableName]
	if !ok {
		return nil
	}
	return t.items[key]
}

// Len returns the number of items in a table.
func (d *Dynamo) Len(tableName string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.tables[tableName]
	if !ok {
		return 0
	}
	return len(t.items)
}

// Seed stores an item directly, bypassing conditions.
func (d *Dynamo) Seed(tableName string, item map[string]types.AttributeValue) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, err := d.table(tableName)
	if err != nil {
		return err
	}
	k, err := keyOf(t, item)
	if err != nil {
		return err
	}
	t.put(k, item)
	return nil
}

func (d *Dynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.PutCalls++
	if d.Err != nil {
		return nil, d.Err
	}
	t, err := d.table(sdkaws.ToString(params.TableName))
	if err != nil {
		return nil, err
	}
	k, err := keyOf(t, params.Item)
	if err != nil {
		return nil, err
	}
	ok, err := evalCondition(params.ConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues, t.items[k])
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conditionFailed()
	}
	t.put(k, copyItem(params.Item))
	return &dyn.PutItemOutput{}, nil
}

func (d *Dynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.GetCalls++
	if d.Err != nil {
		return nil, d.Err
	}
	t, err := d.table(sdkaws.ToString(params.TableName))
	if err != nil {
		return nil, err
	}
	k, err := keyOf(t, params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := t.items[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: copyItem(item)}, nil
}

func (d *Dynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.UpdateCalls++
	if d.Err != nil {
		return nil, d.Err
	}
	t, err := d.table(sdkaws.ToString(params.TableName))
	if err != nil {
		return nil, err
	}
	k, err := keyOf(t, params.Key)
	if err != nil {
		return nil, err
	}
	existing := t.items[k]
	ok, err := evalCondition(params.ConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues, existing)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conditionFailed()
	}

	item := copyItem(existing)
	if item == nil {
		item = copyItem(params.Key)
	}
	if err := applySet(sdkaws.ToString(params.UpdateExpression), params.ExpressionAttributeNames, params.ExpressionAttributeValues, item); err != nil {
		return nil, err
	}
	t.put(k, item)
	return &dyn.UpdateItemOutput{Attributes: copyItem(item)}, nil
}

func (d *Dynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.QueryCalls++
	if d.Err != nil {
		return nil, d.Err
	}
	t, err := d.table(sdkaws.ToString(params.TableName))
	if err != nil {
		return nil, err
	}
	attr, want, err := parseEquality(sdkaws.ToString(params.KeyConditionExpression), params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}

	out := &dyn.QueryOutput{}
	for _, k := range t.order {
		item := t.items[k]
		if equal(item[attr], want) {
			out.Items = append(out.Items, copyItem(item))
		}
	}
	out.Count = int32(len(out.Items))
	return out, nil
}

func (d *Dynamo) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.TransactCalls++
	if d.Err != nil {
		return nil, d.Err
	}

	type write struct {
		t    *table
		key  string
		item map[string]types.AttributeValue
	}
	writes := make([]write, 0, len(params.TransactItems))
	reasons := make([]types.CancellationReason, len(params.TransactItems))
	canceled := false

	for i, it := range params.TransactItems {
		p := it.Put
		if p == nil {
			return nil, errors.New("awsmock: only Put is supported in transactions")
		}
		t, err := d.table(sdkaws.ToString(p.TableName))
		if err != nil {
			return nil, err
		}
		k, err := keyOf(t, p.Item)
		if err != nil {
			return nil, err
		}
		ok, err := evalCondition(p.ConditionExpression, p.ExpressionAttributeNames, p.ExpressionAttributeValues, t.items[k])
		if err != nil {
			return nil, err
		}
		reasons[i] = types.CancellationReason{Code: sdkaws.String("None")}
		if !ok {
			canceled = true
			reasons[i] = types.CancellationReason{Code: sdkaws.String("ConditionalCheckFailed")}
		}
		writes = append(writes, write{t: t, key: k, item: copyItem(p.Item)})
	}

	if canceled {
		return nil, &types.TransactionCanceledException{
			Message:             sdkaws.String("Transaction cancelled"),
			CancellationReasons: reasons,
		}
	}
	for _, w := range writes {
		w.t.put(w.key, w.item)
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}

func (d *Dynamo) table(name string) (*table, error) {
	t, ok := d.tables[name]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: sdkaws.String("table not found: " + name)}
	}
	return t, nil
}

func (t *table) put(k string, item map[string]types.AttributeValue) {
	if _, ok := t.items[k]; !ok {
		t.order = append(t.order, k)
	}
	t.items[k] = item
}

func keyOf(t *table, item map[string]types.AttributeValue) (string, error) {
	v, ok := item[t.pk].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("awsmock: missing string key %q", t.pk)
	}
	return v.Value, nil
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: sdkaws.String("The conditional request failed")}
}

func evalCondition(expr *string, names map[string]string, values map[string]types.AttributeValue, existing map[string]types.AttributeValue) (bool, error) {
	if expr == nil || *expr == "" {
		return true, nil
	}
	e := strings.TrimSpace(*expr)
	switch {
	case strings.HasPrefix(e, "attribute_not_exists(") && strings.HasSuffix(e, ")"):
		attr := resolveName(strings.TrimSuffix(strings.TrimPrefix(e, "attribute_not_exists("), ")"), names)
		_, ok := existing[attr]
		return !ok, nil
	case strings.HasPrefix(e, "attribute_exists(") && strings.HasSuffix(e, ")"):
		attr := resolveName(strings.TrimSuffix(strings.TrimPrefix(e, "attribute_exists("), ")"), names)
		_, ok := existing[attr]
		return ok, nil
	}
	attr, want, err := parseEquality(e, names, values)
	if err != nil {
		return false, err
	}
	return equal(existing[attr], want), nil
}

func parseEquality(expr string, names map[string]string, values map[string]types.AttributeValue) (string, types.AttributeValue, error) {
	parts := strings.SplitN(expr, "=", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("awsmock: unsupported expression %q", expr)
	}
	attr := resolveName(strings.TrimSpace(parts[0]), names)
	want, ok := values[strings.TrimSpace(parts[1])]
	if !ok {
		return "", nil, fmt.Errorf("awsmock: missing value for %q", expr)
	}
	return attr, want, nil
}

func applySet(expr string, names map[string]string, values map[string]types.AttributeValue, item map[string]types.AttributeValue) error {
	expr = strings.TrimSpace(expr)
	if !strings.HasPrefix(expr, "SET ") {
		return fmt.Errorf("awsmock: unsupported update expression %q", expr)
	}
	for _, assignment := range strings.Split(strings.TrimPrefix(expr, "SET "), ",") {
		attr, v, err := parseEquality(assignment, names, values)
		if err != nil {
			return err
		}
		item[attr] = v
	}
	return nil
}

func resolveName(n string, names map[string]string) string {
	n = strings.TrimSpace(n)
	if strings.HasPrefix(n, "#") {
		if actual, ok := names[n]; ok {
			return actual
		}
	}
	return n
}

func equal(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	}
	return false
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	if item == nil {
		return nil
	}
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
