// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/imrishuroy/fybyshop/internal/checkout"
)

// Config holds every setting of the api and worker binaries.
type Config struct {
	Port     string
	RunLocal bool

	OrdersTable      string
	OrdersUserIndex  string
	IdempotencyTable string
	ProfilesTable    string
	QueueURL         string
	MetricsNamespace string
	IdempotencyTTL   time.Duration

	RedisURL string

	ContentfulSpaceID     string
	ContentfulAccessToken string
	ContentfulEnvironment string

	JWTSecret    string
	JWTTTL       time.Duration
	AdminUserIDs []string

	FreeShippingZones  []string
	DeliverySurcharge  int64
	PaidDeliveryOption string
	WhatsAppNumber     string
	MobileMoneyNumber  string
	NotifyWebhookURL   string
	SessionTTL         time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[config] .env not loaded: %v", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	defaults := checkout.DefaultConfig()
	cfg := &Config{
		Port:                  getenv("PORT", "8080"),
		RunLocal:              os.Getenv("RUN_LOCAL") == "true",
		OrdersTable:           getenv("ORDERS_TABLE", "orders"),
		OrdersUserIndex:       getenv("ORDERS_USER_INDEX", "user_id-index"),
		IdempotencyTable:      getenv("IDEMPOTENCY_TABLE", "idempotency"),
		ProfilesTable:         getenv("PROFILES_TABLE", "profiles"),
		QueueURL:              os.Getenv("NOTIFICATIONS_QUEUE_URL"),
		MetricsNamespace:      getenv("METRICS_NAMESPACE", "FybyShop"),
		RedisURL:              getenv("REDIS_URL", "redis://localhost:6379"),
		ContentfulSpaceID:     os.Getenv("CONTENTFUL_SPACE_ID"),
		ContentfulAccessToken: os.Getenv("CONTENTFUL_ACCESS_TOKEN"),
		ContentfulEnvironment: getenv("CONTENTFUL_ENVIRONMENT", "master"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		FreeShippingZones:     defaults.FreeShippingZones,
		PaidDeliveryOption:    getenv("PAID_DELIVERY_OPTION", defaults.PaidOptionID),
		WhatsAppNumber:        getenv("WHATSAPP_NUMBER", "22952353484"),
		MobileMoneyNumber:     getenv("MOBILE_MONEY_NUMBER", defaults.MobileMoneyNumber),
		NotifyWebhookURL:      os.Getenv("NOTIFY_WEBHOOK_URL"),
	}

	cfg.AdminUserIDs = splitList(os.Getenv("ADMIN_USER_IDS"))
	if v := os.Getenv("FREE_SHIPPING_ZONES"); v != "" {
		cfg.FreeShippingZones = splitList(v)
	}

	var err error
	if cfg.DeliverySurcharge, err = getInt("DELIVERY_SURCHARGE", defaults.DeliverySurcharge); err != nil {
		return nil, err
	}
	if cfg.DeliverySurcharge < 0 {
		return nil, fmt.Errorf("DELIVERY_SURCHARGE must not be negative")
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = getDuration("JWT_EXPIRY", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.IdempotencyTTL, err = getDuration("IDEMPOTENCY_TTL", 48*time.Hour); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Checkout returns the pricing configuration of the checkout flow.
func (c *Config) Checkout() checkout.Config {
	cc := checkout.DefaultConfig()
	cc.FreeShippingZones = c.FreeShippingZones
	cc.DeliverySurcharge = c.DeliverySurcharge
	cc.PaidOptionID = c.PaidDeliveryOption
	cc.MobileMoneyNumber = c.MobileMoneyNumber
	for i := range cc.Options {
		if cc.Options[i].ID == cc.PaidOptionID {
			cc.Options[i].Price = c.DeliverySurcharge
		}
	}
	return cc
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
