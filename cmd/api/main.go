package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/redis/go-redis/v9"

	"github.com/imrishuroy/fybyshop/internal/account"
	"github.com/imrishuroy/fybyshop/internal/auth"
	"github.com/imrishuroy/fybyshop/internal/aws"
	"github.com/imrishuroy/fybyshop/internal/cart"
	"github.com/imrishuroy/fybyshop/internal/catalog"
	"github.com/imrishuroy/fybyshop/internal/checkout"
	"github.com/imrishuroy/fybyshop/internal/config"
	"github.com/imrishuroy/fybyshop/internal/handlers"
	"github.com/imrishuroy/fybyshop/internal/idempotency"
	"github.com/imrishuroy/fybyshop/internal/notify"
	"github.com/imrishuroy/fybyshop/internal/orders"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	clients, err := aws.NewAWSClients(ctx)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis not reachable at startup: %v", err)
	}

	provider, err := catalog.NewContentfulProvider(catalog.ContentfulConfig{
		SpaceID:     cfg.ContentfulSpaceID,
		AccessToken: cfg.ContentfulAccessToken,
		Environment: cfg.ContentfulEnvironment,
	})
	if err != nil {
		log.Fatalf("failed to init catalog: %v", err)
	}

	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatalf("failed to init auth: %v", err)
	}

	keys := idempotency.NewStore(clients.DynamoDB, cfg.IdempotencyTable, cfg.IdempotencyTTL)
	carts := cart.NewRedisStore(rdb)

	sinks := checkout.MultiSink{notify.MetricsSink(aws.NewMetrics(clients.CloudWatch, cfg.MetricsNamespace))}
	if cfg.QueueURL != "" {
		sinks = append(sinks, notify.NewQueueSink(aws.NewPublisher(clients.SQS, cfg.QueueURL)))
	} else {
		log.Printf("NOTIFICATIONS_QUEUE_URL not set, order notifications are disabled")
	}

	sessions := checkout.NewRegistry(cfg.SessionTTL)
	go sweepSessions(sessions, cfg.SessionTTL)

	r := handlers.NewRouter(handlers.Deps{
		Catalog:        catalog.NewService(provider, catalog.NewRedisCache(rdb)),
		Carts:          carts,
		Orders:         orders.NewStore(clients.DynamoDB, cfg.OrdersTable, cfg.OrdersUserIndex, keys),
		Profiles:       account.NewStore(clients.DynamoDB, cfg.ProfilesTable),
		Sessions:       sessions,
		Checkout:       cfg.Checkout(),
		Events:         sinks,
		Signer:         signer,
		WhatsAppNumber: cfg.WhatsAppNumber,
		AdminIDs:       cfg.AdminUserIDs,
	})

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if cfg.RunLocal {
		addr := ":" + cfg.Port
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}

// sweepSessions drops idle checkout drafts.
func sweepSessions(r *checkout.Registry, ttl time.Duration) {
	interval := ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	for range time.Tick(interval) {
		if n := r.Sweep(); n > 0 {
			log.Printf("[checkout] swept %d idle sessions", n)
		}
	}
}
