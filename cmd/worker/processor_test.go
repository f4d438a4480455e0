package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/fybyshop/internal/aws/awsmock"
	"github.com/imrishuroy/fybyshop/internal/checkout"
	"github.com/imrishuroy/fybyshop/internal/config"
	"github.com/imrishuroy/fybyshop/internal/idempotency"
	"github.com/imrishuroy/fybyshop/internal/notify"
	"github.com/imrishuroy/fybyshop/internal/orders"
)

const shopNumber = "22952353484"

type failingChannel struct {
	err error
}

func (f failingChannel) Send(ctx context.Context, destination, text string) (string, error) {
	return "", f.err
}

func newTestProcessor(ch notify.Channel) (*Processor, *idempotency.Store, *awsmock.Dynamo) {
	mock := awsmock.NewDynamo()
	mock.CreateTable("idempotency", "idempotency_key")
	keys := idempotency.NewStore(mock, "idempotency", time.Hour)
	return NewProcessor(keys, ch, shopNumber), keys, mock
}

func orderEvent(t *testing.T, orderID string) events.SQSMessage {
	t.Helper()
	ev := checkout.OrderCreatedEvent{
		Type: checkout.EventOrderCreated,
		Order: orders.Order{
			OrderID:       orderID,
			UserID:        "u1",
			Items:         []orders.Item{{ID: "p1", Name: "Phone", Price: 15000, Quantity: 1}},
			Total:         15000,
			PaymentMethod: orders.PaymentCash,
			Status:        orders.StatusPending,
			CustomerInfo:  orders.CustomerInfo{FirstName: "Ada", LastName: "Kossou", Email: "a@b.c", Phone: "+229"},
			CreatedAt:     time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		OccurredAt: time.Now(),
	}
	body, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return events.SQSMessage{MessageId: "m-" + orderID, Body: string(body)}
}

func TestHandle_NotifiesOnce(t *testing.T) {
	rec := &notify.Recorder{}
	p, keys, _ := newTestProcessor(rec)
	ctx := context.Background()

	msg := orderEvent(t, "o1")
	resp, err := p.Handle(ctx, events.SQSEvent{Records: []events.SQSMessage{msg, msg}})
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if len(resp.BatchItemFailures) != 0 {
		t.Fatalf("unexpected failures: %+v", resp.BatchItemFailures)
	}

	sent := rec.Messages()
	if len(sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sent))
	}
	if sent[0].Destination != shopNumber || !strings.Contains(sent[0].Text, "o1") {
		t.Fatalf("unexpected message: %+v", sent[0])
	}

	r, err := keys.Get(ctx, notifyKey("o1"))
	if err != nil || r == nil {
		t.Fatalf("expected claim record, got %v, %v", r, err)
	}
	if r.Status != idempotency.StatusDone || !strings.HasPrefix(r.Result, "https://wa.me/"+shopNumber) {
		t.Fatalf("unexpected record: %+v", r)
	}
}

func TestHandle_FailureIsRetried(t *testing.T) {
	p, keys, _ := newTestProcessor(failingChannel{err: errors.New("channel down")})
	ctx := context.Background()
	msg := orderEvent(t, "o2")

	resp, _ := p.Handle(ctx, events.SQSEvent{Records: []events.SQSMessage{msg}})
	if len(resp.BatchItemFailures) != 1 || resp.BatchItemFailures[0].ItemIdentifier != "m-o2" {
		t.Fatalf("expected one batch failure, got %+v", resp.BatchItemFailures)
	}
	r, _ := keys.Get(ctx, notifyKey("o2"))
	if r == nil || r.Status != idempotency.StatusFailed {
		t.Fatalf("expected FAILED record, got %+v", r)
	}

	// redelivery after the channel recovers reclaims the failed claim
	rec := &notify.Recorder{}
	p.channel = rec
	resp, _ = p.Handle(ctx, events.SQSEvent{Records: []events.SQSMessage{msg}})
	if len(resp.BatchItemFailures) != 0 {
		t.Fatalf("unexpected failures: %+v", resp.BatchItemFailures)
	}
	if len(rec.Messages()) != 1 {
		t.Fatalf("expected the retry to notify")
	}
	r, _ = keys.Get(ctx, notifyKey("o2"))
	if r.Status != idempotency.StatusDone || r.Attempts != 2 {
		t.Fatalf("unexpected record after retry: %+v", r)
	}
}

func TestHandle_InProgressIsSkipped(t *testing.T) {
	rec := &notify.Recorder{}
	p, keys, _ := newTestProcessor(rec)
	ctx := context.Background()

	if _, err := keys.CreateIfNotExists(ctx, notifyKey("o3"), "o3"); err != nil {
		t.Fatalf("seed claim: %v", err)
	}
	resp, _ := p.Handle(ctx, events.SQSEvent{Records: []events.SQSMessage{orderEvent(t, "o3")}})
	if len(resp.BatchItemFailures) != 0 || len(rec.Messages()) != 0 {
		t.Fatalf("in-progress claim must be left alone")
	}
}

func TestHandle_BadMessages(t *testing.T) {
	rec := &notify.Recorder{}
	p, _, mock := newTestProcessor(rec)

	batch := events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "bad-json", Body: "{"},
		{MessageId: "no-id", Body: `{"type":"OrderCreated","order":{}}`},
		{MessageId: "other", Body: `{"type":"OrderShipped"}`},
	}}
	resp, _ := p.Handle(context.Background(), batch)
	if len(resp.BatchItemFailures) != 2 {
		t.Fatalf("expected 2 failures, got %+v", resp.BatchItemFailures)
	}
	if mock.Len("idempotency") != 0 || len(rec.Messages()) != 0 {
		t.Fatalf("bad messages must not claim or notify")
	}
}

func TestHandle_StoreError(t *testing.T) {
	rec := &notify.Recorder{}
	p, _, mock := newTestProcessor(rec)
	mock.Err = errors.New("dynamo down")

	resp, _ := p.Handle(context.Background(), events.SQSEvent{Records: []events.SQSMessage{orderEvent(t, "o4")}})
	if len(resp.BatchItemFailures) != 1 || len(rec.Messages()) != 0 {
		t.Fatalf("expected failure without notification, got %+v", resp)
	}
}

func TestChannel_FromConfig(t *testing.T) {
	if _, ok := channel(&config.Config{}).(notify.LinkChannel); !ok {
		t.Fatalf("expected link channel without a webhook url")
	}
	ch, ok := channel(&config.Config{NotifyWebhookURL: "https://hooks.example.com"}).(*notify.WebhookChannel)
	if !ok {
		t.Fatalf("expected webhook channel")
	}
	if ch.URL != "https://hooks.example.com" {
		t.Fatalf("unexpected webhook url %q", ch.URL)
	}
}
