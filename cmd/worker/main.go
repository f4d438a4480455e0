package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/fybyshop/internal/aws"
	"github.com/imrishuroy/fybyshop/internal/config"
	"github.com/imrishuroy/fybyshop/internal/idempotency"
	"github.com/imrishuroy/fybyshop/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	keys := idempotency.NewStore(clients.DynamoDB, cfg.IdempotencyTable, cfg.IdempotencyTTL)
	p := NewProcessor(keys, channel(cfg), cfg.WhatsAppNumber)

	// If RUN_LOCAL=true, process a single event from LOCAL_SQS_BODY and exit.
	if cfg.RunLocal {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			log.Fatalf("LOCAL_SQS_BODY is required when RUN_LOCAL=true")
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{{MessageId: "local-1", Body: body}},
		}
		resp, err := p.Handle(context.Background(), event)
		if err != nil || len(resp.BatchItemFailures) > 0 {
			log.Fatalf("local handler failed: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}

// channel posts to NOTIFY_WEBHOOK_URL when set. Without it the worker only
// renders and logs the wa.me link.
func channel(cfg *config.Config) notify.Channel {
	if cfg.NotifyWebhookURL != "" {
		log.Printf("[worker] notifications go to webhook")
		return notify.NewWebhookChannel(cfg.NotifyWebhookURL)
	}
	log.Printf("[worker] NOTIFY_WEBHOOK_URL not set, logging links only")
	return notify.LinkChannel{}
}
