package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/SergeyBogomolovv/checkout-service/docs"
	"github.com/SergeyBogomolovv/checkout-service/internal/app"
	"github.com/SergeyBogomolovv/checkout-service/internal/config"
	"github.com/SergeyBogomolovv/checkout-service/internal/handler"
	"github.com/SergeyBogomolovv/checkout-service/internal/middleware"
	"github.com/SergeyBogomolovv/checkout-service/internal/notifier"
	"github.com/SergeyBogomolovv/checkout-service/internal/payment"
	"github.com/SergeyBogomolovv/checkout-service/internal/postgres"
	"github.com/SergeyBogomolovv/checkout-service/internal/pricing"
	"github.com/SergeyBogomolovv/checkout-service/internal/repo"
	"github.com/SergeyBogomolovv/checkout-service/internal/service"
	"github.com/SergeyBogomolovv/checkout-service/migrations"
	"github.com/SergeyBogomolovv/checkout-service/pkg/cache"
	"github.com/SergeyBogomolovv/checkout-service/pkg/idempotency"
	"github.com/SergeyBogomolovv/checkout-service/pkg/trm"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// @title           Checkout Service API
// @version         1.0
// @description     Order creation and payment reconciliation.
// @BasePath        /
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	orderRepo, catalog, closeStorage := newStorage(ctx, logger, conf)
	defer closeStorage()

	orderCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)

	gateway := payment.NewGateway(
		logger,
		payment.NewStripeProcessor(payment.NewStripeIntents(conf.Stripe.SecretKey)),
		payment.NewWebhookVerifier(conf.Stripe.WebhookSecret),
	)

	orderNotifier, closeNotifier := newNotifier(logger, conf.Kafka)
	defer closeNotifier()

	orderService := service.NewOrderService(
		logger,
		service.CheckoutConfig{
			Currency:            conf.Checkout.Currency,
			PaymentTimeout:      conf.Checkout.PaymentTimeout,
			NotificationTimeout: conf.Checkout.NotificationTimeout,
			Calculator:          pricing.NewCalculator(conf.Checkout.TaxRate),
			ShippingMethods:     pricing.DefaultShippingMethods(),
		},
		orderRepo,
		orderCache,
		pricing.NewVerifier(catalog),
		gateway,
		orderNotifier,
		service.NewOrderNumberGenerator(),
	)
	defer orderService.Wait()

	webhookService := service.NewWebhookService(logger, gateway, orderRepo, orderCache)

	idempotent, closeRedis := newIdempotency(logger, conf.Redis)
	defer closeRedis()

	service.RegisterMetrics()
	handler.RegisterMetrics()

	app := app.New(logger, conf)
	app.SetHTTPHandlers(
		handler.NewHTTPHandler(logger, orderService, idempotent),
		handler.NewWebhookHandler(logger, webhookService),
	)
	if conf.Kafka.Enabled {
		app.SetConsumers(handler.NewKafkaHandler(logger, conf.Kafka, webhookService))
	}
	app.SetStarters(orderCache, cacheWarmUpAdapter{svc: orderService, count: conf.Cache.Capacity})

	panicIfErr("failed to start app", app.Start(ctx))
	<-ctx.Done()
	panicIfErr("failed to stop app", app.Stop())
}

func init() {
	godotenv.Load()
}

func newStorage(ctx context.Context, logger *slog.Logger, conf config.Config) (service.OrderRepo, pricing.Catalog, func()) {
	if conf.Storage.Driver == "memory" {
		catalog := repo.NewMemoryCatalog()
		if conf.Storage.SeedFile != "" {
			f, err := os.Open(conf.Storage.SeedFile)
			panicIfErr("failed to open seed file", err)
			products, err := repo.LoadProducts(f)
			f.Close()
			panicIfErr("failed to load seed products", err)
			catalog.Put(products...)
			logger.Info("catalog seeded", slog.Int("products", len(products)))
		}
		logger.Warn("using in-memory storage, orders are lost on restart")
		return repo.NewMemoryRepo(), catalog, func() {}
	}

	db, err := postgres.New(ctx, conf.Postgres)
	panicIfErr("failed to connect to db", err)
	logger.Info("postgres connected")

	if conf.Postgres.AutoMigrate {
		panicIfErr("failed to migrate db", postgres.Migrate(ctx, db, migrations.FS))
		logger.Info("postgres migrated")
	}

	txManager := trm.NewManager(db)
	return repo.NewPostgresRepo(db, txManager), repo.NewPostgresCatalog(db), func() { db.Close() }
}

func newNotifier(logger *slog.Logger, conf config.Kafka) (service.Notifier, func()) {
	if !conf.Enabled {
		return notifier.NewLogNotifier(logger), func() {}
	}
	n := notifier.NewKafkaNotifier(logger, notifier.NewKafkaWriter(conf.Brokers, conf.NotificationTopic, conf.BatchTimeout))
	return n, func() {
		if err := n.Close(); err != nil {
			logger.Error("failed to close notifier", slog.Any("error", err))
		}
	}
}

// newIdempotency returns nil middleware when Redis is not configured.
func newIdempotency(logger *slog.Logger, conf config.Redis) (func(http.Handler) http.Handler, func()) {
	if conf.Addr == "" {
		logger.Warn("redis not configured, idempotency keys are ignored")
		return nil, func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	store := idempotency.NewStore(client, "checkout-service", conf.IdempotencyTTL)
	return middleware.Idempotency(logger, store, "create_order"), func() { client.Close() }
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(fmt.Sprintf("%s: %v", prefix, err))
	}
}

type warmUpper interface {
	WarmUpCache(ctx context.Context, count int) error
}

type cacheWarmUpAdapter struct {
	svc   warmUpper
	count int
}

func (a cacheWarmUpAdapter) Start(ctx context.Context) error {
	return a.svc.WarmUpCache(ctx, a.count)
}
