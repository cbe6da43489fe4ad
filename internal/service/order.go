package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/SergeyBogomolovv/checkout-service/internal/payment"
	"github.com/SergeyBogomolovv/checkout-service/internal/pricing"
	"github.com/SergeyBogomolovv/checkout-service/pkg/utils"
	"github.com/shopspring/decimal"
)

type OrderRepo interface {
	Create(ctx context.Context, o entities.Order) (entities.Order, error)
	FindByPaymentReference(ctx context.Context, ref string) (entities.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (entities.Order, error)
	LatestOrders(ctx context.Context, count int) ([]entities.Order, error)

	// Both updates are compare-and-set: a stale expectation returns the current order with applied=false.
	UpdatePaymentStatus(ctx context.Context, orderID int64, upd entities.PaymentUpdate) (entities.Order, bool, error)
	UpdateStatus(ctx context.Context, orderID int64, change entities.StatusChange) (entities.Order, bool, error)
}

type PriceVerifier interface {
	Verify(ctx context.Context, items []pricing.RequestedItem) ([]entities.LineItem, error)
}

type PaymentAuthorizer interface {
	Authorize(ctx context.Context, amount decimal.Decimal, currency string, method entities.PaymentMethod, token string) (payment.AuthorizationResult, error)
}

type Notifier interface {
	OrderConfirmed(ctx context.Context, confirmation entities.OrderConfirmation) error
}

type OrderNumbers interface {
	Generate() (string, error)
}

// Cache holds marshalled orders. Writers Delete after changing an order; readers fill
// it with SetIfUnchanged so a fill cannot outlive a concurrent Delete.
type Cache interface {
	Get(key string) ([]byte, bool)
	Delete(key string)
	Generation() uint64
	SetIfUnchanged(key string, value []byte, generation uint64) bool
}

type CheckoutConfig struct {
	Currency            string
	PaymentTimeout      time.Duration
	NotificationTimeout time.Duration
	Calculator          pricing.Calculator
	ShippingMethods     pricing.ShippingMethods
}

type CreateOrderInput struct {
	SessionID        string
	Customer         entities.Customer
	Items            []pricing.RequestedItem
	ShippingAddress  *entities.Address
	BillingAddress   *entities.Address
	PaymentMethod    entities.PaymentMethod
	PaymentToken     string
	ShippingMethodID string
	CustomerNotes    string
	Locale           string
	IdempotencyKey   string

	// Client-computed totals are only compared for logging.
	ClientSubtotal decimal.NullDecimal
	ClientTotal    decimal.NullDecimal
}

type orderService struct {
	logger   *slog.Logger
	cfg      CheckoutConfig
	repo     OrderRepo
	cache    Cache
	prices   PriceVerifier
	payments PaymentAuthorizer
	notifier Notifier
	numbers  OrderNumbers

	notifications sync.WaitGroup
}

func NewOrderService(
	logger *slog.Logger,
	cfg CheckoutConfig,
	repo OrderRepo,
	cache Cache,
	prices PriceVerifier,
	payments PaymentAuthorizer,
	notifier Notifier,
	numbers OrderNumbers,
) *orderService {
	return &orderService{
		logger:   logger.With(slog.String("service", "order")),
		cfg:      cfg,
		repo:     repo,
		cache:    cache,
		prices:   prices,
		payments: payments,
		notifier: notifier,
		numbers:  numbers,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (entities.Order, error) {
	if err := validateInput(in); err != nil {
		return entities.Order{}, err
	}

	shipping, err := s.cfg.ShippingMethods.Resolve(in.ShippingMethodID)
	if err != nil {
		return entities.Order{}, err
	}

	items, err := s.prices.Verify(ctx, in.Items)
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to verify prices: %w", err)
	}
	s.logTampering(ctx, in, items)

	totals := s.cfg.Calculator.Calculate(items, shipping)
	s.logClientTotals(ctx, in, totals)

	res, err := s.authorize(payment.WithIdempotencyKey(ctx, in.IdempotencyKey), totals.Total, in.PaymentMethod, in.PaymentToken)
	if err != nil {
		return entities.Order{}, err
	}

	status, paymentStatus := entities.OrderStatusPending, entities.PaymentStatusPending
	captured := !in.PaymentMethod.Deferred() && res.Success && !res.Pending
	if captured {
		status, paymentStatus = entities.OrderStatusProcessing, entities.PaymentStatusPaid
	}

	billing := *in.ShippingAddress
	if in.BillingAddress != nil {
		billing = *in.BillingAddress
	}

	order := entities.Order{
		Customer:         in.Customer,
		Status:           status,
		PaymentMethod:    in.PaymentMethod,
		PaymentStatus:    paymentStatus,
		PaymentReference: res.TransactionID,
		Totals:           totals,
		Currency:         s.cfg.Currency,
		ShippingAddress:  *in.ShippingAddress,
		BillingAddress:   billing,
		ShippingMethod:   shipping,
		CustomerNotes:    in.CustomerNotes,
		Items:            items,
	}

	// Money may already have moved, so the write must not be abandoned with the request.
	created, err := s.persist(context.WithoutCancel(ctx), order)
	if err != nil {
		if !in.PaymentMethod.Deferred() && res.Success {
			orphanedCaptures.Inc()
			s.logger.ErrorContext(ctx, "payment authorized but order not persisted",
				slog.Bool("orphaned_capture", true),
				slog.String("payment_reference", res.TransactionID),
				slog.String("amount", totals.Total.StringFixed(2)),
				slog.String("currency", s.cfg.Currency),
				slog.Any("error", err),
			)
		} else {
			s.logger.ErrorContext(ctx, "failed to persist order", slog.Any("error", err))
		}
		return entities.Order{}, fmt.Errorf("%w: %w", entities.ErrPersistenceFailure, err)
	}

	ordersCreated.WithLabelValues(string(created.PaymentMethod), string(created.PaymentStatus)).Inc()
	s.logger.InfoContext(ctx, "order created",
		slog.String("order_number", created.OrderNumber),
		slog.String("payment_status", string(created.PaymentStatus)),
		slog.String("total", created.Totals.Total.StringFixed(2)),
	)

	s.notify(ctx, created, in.Locale)
	return created, nil
}

func validateInput(in CreateOrderInput) error {
	if len(in.Items) == 0 {
		return entities.ErrEmptyOrder
	}
	if in.SessionID == "" {
		return fmt.Errorf("%w: cart session is required", entities.ErrInvalidRequest)
	}
	if err := validateCustomer(in.Customer); err != nil {
		return err
	}
	if in.ShippingAddress == nil {
		return fmt.Errorf("%w: shipping address is required", entities.ErrInvalidRequest)
	}
	if in.PaymentMethod == "" {
		return fmt.Errorf("%w: payment method is required", entities.ErrInvalidRequest)
	}
	if !in.PaymentMethod.Deferred() && in.PaymentToken == "" {
		return fmt.Errorf("%w: payment token is required for %s", entities.ErrInvalidRequest, in.PaymentMethod)
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: product %d has non-positive quantity", entities.ErrInvalidRequest, it.ProductID)
		}
	}
	return nil
}

// validateCustomer requires an identity: a signed-in user id, or a guest email.
// Authenticated customers may omit the email; it is resolved from the account downstream.
func validateCustomer(c entities.Customer) error {
	switch c := c.(type) {
	case entities.Authenticated:
		if c.UserID == "" {
			return fmt.Errorf("%w: user id is required", entities.ErrInvalidRequest)
		}
	case entities.Guest:
		if c.Email == "" {
			return fmt.Errorf("%w: guest email is required", entities.ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: user or guest email is required", entities.ErrInvalidRequest)
	}
	return nil
}

func (s *orderService) authorize(ctx context.Context, amount decimal.Decimal, method entities.PaymentMethod, token string) (payment.AuthorizationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.PaymentTimeout)
	defer cancel()

	res, err := s.payments.Authorize(ctx, amount, s.cfg.Currency, method, token)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		paymentsDeclined.WithLabelValues("timeout").Inc()
		s.logger.WarnContext(ctx, "payment authorization timed out", slog.String("method", string(method)))
		return payment.AuthorizationResult{}, fmt.Errorf("%w: authorization timed out", entities.ErrPaymentDeclined)
	case errors.Is(err, entities.ErrInvalidRequest), errors.Is(err, entities.ErrIdempotencyConflict):
		return payment.AuthorizationResult{}, err
	case err != nil:
		s.logger.ErrorContext(ctx, "payment gateway error", slog.Any("error", err))
		return payment.AuthorizationResult{}, fmt.Errorf("%w: %w", entities.ErrPaymentUnavailable, err)
	case !res.Success:
		paymentsDeclined.WithLabelValues("processor").Inc()
		s.logger.InfoContext(ctx, "payment declined",
			slog.String("method", string(method)),
			slog.String("reason", res.FailureReason),
		)
		return payment.AuthorizationResult{}, fmt.Errorf("%w: %s", entities.ErrPaymentDeclined, res.FailureReason)
	}
	return res, nil
}

func (s *orderService) persist(ctx context.Context, order entities.Order) (entities.Order, error) {
	var created entities.Order
	fn := func() error {
		number, err := s.numbers.Generate()
		if err != nil {
			return err
		}
		order.OrderNumber = number
		created, err = s.repo.Create(ctx, order)
		return err
	}

	cfg := utils.RetryConfig{
		InitialDelay: 10 * time.Millisecond,
		MaxAttempts:  5,
		Multiplier:   2,
	}
	conflict := func(err error) bool { return errors.Is(err, entities.ErrOrderNumberConflict) }
	if err := utils.RetryIf(ctx, cfg, fn, conflict); err != nil {
		return entities.Order{}, err
	}
	return created, nil
}

func (s *orderService) notify(ctx context.Context, order entities.Order, locale string) {
	confirmation := entities.NewOrderConfirmation(order, locale)
	ctx = context.WithoutCancel(ctx)

	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()

		ctx, cancel := context.WithTimeout(ctx, s.cfg.NotificationTimeout)
		defer cancel()

		if err := s.notifier.OrderConfirmed(ctx, confirmation); err != nil {
			notificationsFailed.Inc()
			s.logger.WarnContext(ctx, "failed to send order confirmation",
				slog.String("order_number", order.OrderNumber),
				slog.Any("error", err),
			)
		}
	}()
}

// Wait blocks until in-flight confirmation requests finish.
func (s *orderService) Wait() {
	s.notifications.Wait()
}

func (s *orderService) logTampering(ctx context.Context, in CreateOrderInput, items []entities.LineItem) {
	for i, it := range in.Items {
		if it.ClientUnitPrice.IsZero() || it.ClientUnitPrice.Equal(items[i].UnitPrice) {
			continue
		}
		s.logger.WarnContext(ctx, "client price differs from catalog",
			slog.Int64("product_id", it.ProductID),
			slog.String("client_price", it.ClientUnitPrice.String()),
			slog.String("catalog_price", items[i].UnitPrice.String()),
		)
	}
}

func (s *orderService) logClientTotals(ctx context.Context, in CreateOrderInput, totals entities.Totals) {
	if in.ClientSubtotal.Valid && !in.ClientSubtotal.Decimal.Equal(totals.Subtotal) ||
		in.ClientTotal.Valid && !in.ClientTotal.Decimal.Equal(totals.Total) {
		s.logger.WarnContext(ctx, "client totals differ from server totals",
			slog.String("server_subtotal", totals.Subtotal.StringFixed(2)),
			slog.String("server_total", totals.Total.StringFixed(2)),
		)
	}
}

func (s *orderService) GetOrder(ctx context.Context, orderNumber string) (entities.Order, error) {
	if data, ok := s.cache.Get(orderNumber); ok {
		var order entities.Order
		err := order.Unmarshal(data)
		if err == nil {
			return order, nil
		}
		s.logger.Warn("dropping unreadable cache entry", slog.String("order_number", orderNumber), slog.Any("error", err))
		s.cache.Delete(orderNumber)
	}

	generation := s.cache.Generation()
	var order entities.Order
	fn := func() error {
		var err error
		order, err = s.repo.GetByOrderNumber(ctx, orderNumber)
		return err
	}
	cfg := utils.RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxAttempts:  3,
		Multiplier:   2,
	}
	if err := utils.Retry(ctx, cfg, fn, entities.ErrOrderNotFound); err != nil {
		return entities.Order{}, err
	}

	s.store(order, generation)
	return order, nil
}

// UpdateStatus moves an order along the fulfilment state machine.
func (s *orderService) UpdateStatus(ctx context.Context, orderNumber string, to entities.OrderStatus, changedBy, notes string) (entities.Order, error) {
	order, err := s.repo.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		return entities.Order{}, err
	}
	if !order.Status.CanTransitionTo(to) {
		return entities.Order{}, fmt.Errorf("%w: %s -> %s", entities.ErrInvalidTransition, order.Status, to)
	}

	updated, applied, err := s.repo.UpdateStatus(ctx, order.ID, entities.StatusChange{
		From:      order.Status,
		To:        to,
		ChangedBy: changedBy,
		Notes:     notes,
	})
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to update status: %w", err)
	}
	if !applied {
		return entities.Order{}, fmt.Errorf("%w: status changed concurrently to %s", entities.ErrInvalidTransition, updated.Status)
	}

	s.cache.Delete(orderNumber)
	s.logger.InfoContext(ctx, "order status changed",
		slog.String("order_number", orderNumber),
		slog.String("from", string(order.Status)),
		slog.String("to", string(to)),
		slog.String("changed_by", changedBy),
	)
	return updated, nil
}

// WarmUpCache preloads the most recent orders.
func (s *orderService) WarmUpCache(ctx context.Context, count int) error {
	generation := s.cache.Generation()
	orders, err := s.repo.LatestOrders(ctx, count)
	if err != nil {
		return fmt.Errorf("failed to load latest orders: %w", err)
	}
	for _, o := range orders {
		s.store(o, generation)
	}
	s.logger.Info("cache warmed up", slog.Int("orders", len(orders)))
	return nil
}

func (s *orderService) store(order entities.Order, generation uint64) {
	data, err := order.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal order", slog.String("order_number", order.OrderNumber), slog.Any("error", err))
		return
	}
	if !s.cache.SetIfUnchanged(order.OrderNumber, data, generation) {
		s.logger.Debug("order changed while loading, not cached", slog.String("order_number", order.OrderNumber))
	}
}
