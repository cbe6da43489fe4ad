package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Env  string `validate:"required,oneof=development stage production"`
	HTTP HTTP

	Cors CORS `validate:"required"`

	Storage  Storage
	Postgres Postgres `validate:"-"`

	Kafka Kafka `validate:"required"`
	Redis Redis
	Cache Cache

	Stripe   Stripe
	Checkout Checkout
}

type HTTP struct {
	Host string `validate:"required,hostname|ip"`
	Port string `validate:"required,gt=0,lte=65535"`
}

type Storage struct {
	Driver   string `validate:"required,oneof=postgres memory"`
	SeedFile string `validate:"omitempty,file"`
}

type Kafka struct {
	Enabled bool
	GroupID string   `validate:"required_if=Enabled true"`
	Brokers []string `validate:"required_if=Enabled true,dive,hostname_port"`

	WebhookTopic      string `validate:"required_if=Enabled true"`
	NotificationTopic string `validate:"required_if=Enabled true"`
	MaxRedeliveries   int    `validate:"gte=0"`

	RedeliveryBackoff    time.Duration `validate:"gte=0"`
	MaxRedeliveryBackoff time.Duration `validate:"gte=0"`

	ReaderMaxWait time.Duration `validate:"gte=0"`
	BatchTimeout  time.Duration `validate:"gte=0"`
}

type Postgres struct {
	Host     string `validate:"required,hostname|ip"`
	Port     int    `validate:"required,gt=0,lte=65535"`
	DBName   string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`

	SSLMode string `validate:"required,oneof=disable require verify-ca verify-full"`

	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`

	AutoMigrate bool
}

// Redis is optional: without an address Idempotency-Key headers are ignored.
type Redis struct {
	Addr           string `validate:"omitempty,hostname_port"`
	Password       string
	DB             int           `validate:"gte=0"`
	IdempotencyTTL time.Duration `validate:"gt=0"`
}

type Cache struct {
	Capacity int           `validate:"gt=0"`
	TTL      time.Duration `validate:"gt=0"`
}

type Stripe struct {
	SecretKey     string `validate:"required"`
	WebhookSecret string `validate:"required"`
}

type Checkout struct {
	Currency            string          `validate:"required,iso4217"`
	TaxRate             decimal.Decimal `validate:"-"`
	PaymentTimeout      time.Duration   `validate:"gt=0"`
	NotificationTimeout time.Duration   `validate:"gt=0"`
}

type CORS struct {
	AllowedOrigins []string `validate:"required,min=1,dive,url"`
}

func New() Config {
	return Config{
		Env: env("ENV", "development"),

		HTTP: HTTP{
			Host: env("HOST", "localhost"),
			Port: env("PORT", "8080"),
		},

		Cors: CORS{
			AllowedOrigins: strings.Split(env("ALLOWED_CORS_ORIGINS", "http://localhost:3000"), ","),
		},

		Storage: Storage{
			Driver:   env("STORAGE_DRIVER", "postgres"),
			SeedFile: env("STORAGE_SEED_FILE", ""),
		},

		Kafka: Kafka{
			Enabled: envBool("KAFKA_ENABLED", true),
			GroupID: env("KAFKA_GROUP_ID", "checkout-service"),
			Brokers: strings.Split(env("KAFKA_BROKERS", "localhost:9092"), ","),

			WebhookTopic:      env("KAFKA_WEBHOOK_TOPIC", "payment-webhooks"),
			NotificationTopic: env("KAFKA_NOTIFICATION_TOPIC", "order-notifications"),
			MaxRedeliveries:   envInt("KAFKA_MAX_REDELIVERIES", 10),

			RedeliveryBackoff:    envDuration("KAFKA_REDELIVERY_BACKOFF", time.Second),
			MaxRedeliveryBackoff: envDuration("KAFKA_MAX_REDELIVERY_BACKOFF", time.Minute),

			ReaderMaxWait: envDuration("KAFKA_READER_MAX_WAIT", 10*time.Millisecond),
			BatchTimeout:  envDuration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
		},

		Postgres: Postgres{
			Port:     envInt("POSTGRES_PORT", 5432),
			Host:     env("POSTGRES_HOST", "localhost"),
			DBName:   env("POSTGRES_DB", "checkout"),
			User:     env("POSTGRES_USER", ""),
			Password: env("POSTGRES_PASSWORD", ""),

			SSLMode: env("POSTGRES_SSL_MODE", "disable"),

			MaxOpenConns:    envInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("POSTGRES_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: envDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),

			AutoMigrate: envBool("POSTGRES_AUTO_MIGRATE", false),
		},

		Redis: Redis{
			Addr:           env("REDIS_ADDR", ""),
			Password:       env("REDIS_PASSWORD", ""),
			DB:             envInt("REDIS_DB", 0),
			IdempotencyTTL: envDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		},

		Cache: Cache{
			Capacity: envInt("CACHE_CAPACITY", 1000),
			TTL:      envDuration("CACHE_TTL", 10*time.Minute),
		},

		Stripe: Stripe{
			SecretKey:     env("STRIPE_SECRET_KEY", ""),
			WebhookSecret: env("STRIPE_WEBHOOK_SECRET", ""),
		},

		Checkout: Checkout{
			Currency:            env("CHECKOUT_CURRENCY", "EUR"),
			TaxRate:             envDecimal("CHECKOUT_TAX_RATE", decimal.RequireFromString("0.21")),
			PaymentTimeout:      envDuration("PAYMENT_TIMEOUT", 15*time.Second),
			NotificationTimeout: envDuration("NOTIFICATION_TIMEOUT", 5*time.Second),
		},
	}
}

func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	// only the selected storage driver needs connection settings
	if c.Storage.Driver == "postgres" {
		if err := validate.Struct(c.Postgres); err != nil {
			return err
		}
	}
	if c.Checkout.TaxRate.IsNegative() || c.Checkout.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate must be in [0, 1), got %s", c.Checkout.TaxRate)
	}
	return nil
}

func init() {
	godotenv.Load()
}

func env(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func envDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if value, ok := os.LookupEnv(key); ok {
		d, err := decimal.NewFromString(value)
		if err == nil {
			return d
		}
	}
	return fallback
}
