package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/fybyshop/internal/checkout"
	"github.com/imrishuroy/fybyshop/internal/idempotency"
	"github.com/imrishuroy/fybyshop/internal/notify"
)

var errEmptyOrderID = errors.New("event has no order id")

// Processor turns OrderCreated events into shop notifications. Each order is
// announced at most once, even when SQS delivers the event again.
type Processor struct {
	keys        *idempotency.Store
	channel     notify.Channel
	destination string
}

// NewProcessor creates a processor sending to destination through ch.
func NewProcessor(keys *idempotency.Store, ch notify.Channel, destination string) *Processor {
	return &Processor{keys: keys, channel: ch, destination: destination}
}

// Handle processes an SQS batch. Failed messages are reported individually so
// only they are redelivered.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec.Body); err != nil {
			log.Printf("[worker] message=%s failed: %v", rec.MessageId, err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: rec.MessageId})
		}
	}
	return resp, nil
}

func (p *Processor) processMessage(ctx context.Context, body string) error {
	var ev checkout.OrderCreatedEvent
	if err := json.Unmarshal([]byte(body), &ev); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if ev.Type != checkout.EventOrderCreated {
		log.Printf("[worker] ignoring event type=%q", ev.Type)
		return nil
	}
	orderID := ev.Order.OrderID
	if orderID == "" {
		return errEmptyOrderID
	}

	key := notifyKey(orderID)
	claimed, err := p.claim(ctx, key, orderID)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	link, err := p.channel.Send(ctx, p.destination, notify.OrderMessage(ev.Order))
	if err != nil {
		if mErr := p.keys.MarkFailed(ctx, key, err.Error()); mErr != nil {
			log.Printf("[worker] order=%s mark failed: %v", orderID, mErr)
		}
		return fmt.Errorf("notify order=%s: %w", orderID, err)
	}
	if err := p.keys.MarkDone(ctx, key, link); err != nil {
		return fmt.Errorf("mark done order=%s: %w", orderID, err)
	}

	log.Printf("[worker] notified order=%s", orderID)
	return nil
}

// claim reports whether this delivery owns the notification for the order.
func (p *Processor) claim(ctx context.Context, key, orderID string) (bool, error) {
	created, err := p.keys.CreateIfNotExists(ctx, key, orderID)
	if err != nil {
		return false, fmt.Errorf("claim order=%s: %w", orderID, err)
	}
	if created {
		return true, nil
	}

	rec, err := p.keys.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load claim order=%s: %w", orderID, err)
	}
	if rec == nil {
		return false, fmt.Errorf("claim for order=%s vanished", orderID)
	}
	switch rec.Status {
	case idempotency.StatusDone:
		log.Printf("[worker] already notified order=%s", orderID)
		return false, nil
	case idempotency.StatusInProgress:
		log.Printf("[worker] duplicate event for order=%s", orderID)
		return false, nil
	case idempotency.StatusFailed:
		return p.keys.Reclaim(ctx, key, rec.Attempts+1)
	default:
		return false, fmt.Errorf("unexpected claim status for order=%s: %s", orderID, rec.Status)
	}
}
