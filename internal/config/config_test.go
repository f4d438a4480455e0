package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"FREE_SHIPPING_ZONES", "DELIVERY_SURCHARGE", "SESSION_TTL", "PORT", "WHATSAPP_NUMBER", "NOTIFY_WEBHOOK_URL"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(2500), cfg.DeliverySurcharge)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "22952353484", cfg.WhatsAppNumber)
	assert.Empty(t, cfg.NotifyWebhookURL)
	assert.Equal(t, []string{"Cococodji", "Hêvié", "Pahou", "Calavi"}, cfg.FreeShippingZones)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("FREE_SHIPPING_ZONES", " Cotonou, ,Porto-Novo ")
	t.Setenv("DELIVERY_SURCHARGE", "3000")
	t.Setenv("SESSION_TTL", "10m")
	t.Setenv("RUN_LOCAL", "true")
	t.Setenv("ADMIN_USER_IDS", "a1,a2")
	t.Setenv("NOTIFY_WEBHOOK_URL", "https://hooks.example.com/orders")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"Cotonou", "Porto-Novo"}, cfg.FreeShippingZones)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.RunLocal)
	assert.Equal(t, []string{"a1", "a2"}, cfg.AdminUserIDs)
	assert.Equal(t, "https://hooks.example.com/orders", cfg.NotifyWebhookURL)

	cc := cfg.Checkout()
	assert.Equal(t, int64(3000), cc.DeliverySurcharge)
	opt, ok := cc.Option(cc.PaidOptionID)
	require.True(t, ok)
	assert.Equal(t, int64(3000), opt.Price)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("DELIVERY_SURCHARGE", "abc")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("DELIVERY_SURCHARGE", "-1")
	_, err = FromEnv()
	assert.Error(t, err)

	t.Setenv("DELIVERY_SURCHARGE", "")
	t.Setenv("SESSION_TTL", "soon")
	_, err = FromEnv()
	assert.Error(t, err)
}
