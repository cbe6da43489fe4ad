package config_test

import (
	"testing"
	"time"

	"github.com/SergeyBogomolovv/checkout-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("POSTGRES_USER", "checkout")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
}

func TestNew_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg := config.New()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "EUR", cfg.Checkout.Currency)
	assert.Equal(t, "0.21", cfg.Checkout.TaxRate.String())
	assert.Equal(t, 15*time.Second, cfg.Checkout.PaymentTimeout)
	assert.Equal(t, "payment-webhooks", cfg.Kafka.WebhookTopic)
	assert.Equal(t, "order-notifications", cfg.Kafka.NotificationTopic)
	assert.Equal(t, 10, cfg.Kafka.MaxRedeliveries)
	assert.Equal(t, time.Second, cfg.Kafka.RedeliveryBackoff)
	assert.Equal(t, time.Minute, cfg.Kafka.MaxRedeliveryBackoff)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name: "overrides are parsed",
			env: map[string]string{
				"CHECKOUT_TAX_RATE":      "0.10",
				"PAYMENT_TIMEOUT":        "3s",
				"KAFKA_MAX_REDELIVERIES": "3",
				"REDIS_ADDR":             "localhost:6379",
			},
		},
		{
			name:    "unknown environment",
			env:     map[string]string{"ENV": "dev"},
			wantErr: true,
		},
		{
			name:    "missing postgres credentials",
			env:     map[string]string{"POSTGRES_USER": ""},
			wantErr: true,
		},
		{
			name:    "memory storage does not need postgres",
			env:     map[string]string{"STORAGE_DRIVER": "memory", "POSTGRES_USER": "", "POSTGRES_PASSWORD": ""},
			wantErr: false,
		},
		{
			name:    "unknown storage driver",
			env:     map[string]string{"STORAGE_DRIVER": "mongo"},
			wantErr: true,
		},
		{
			name:    "missing webhook secret",
			env:     map[string]string{"STRIPE_WEBHOOK_SECRET": ""},
			wantErr: true,
		},
		{
			name:    "tax rate out of range",
			env:     map[string]string{"CHECKOUT_TAX_RATE": "1.5"},
			wantErr: true,
		},
		{
			name:    "invalid currency",
			env:     map[string]string{"CHECKOUT_CURRENCY": "EURO"},
			wantErr: true,
		},
		{
			name:    "kafka disabled needs no brokers",
			env:     map[string]string{"KAFKA_ENABLED": "false", "KAFKA_GROUP_ID": ""},
			wantErr: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			err := config.New().Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
