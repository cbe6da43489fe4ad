package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/SergeyBogomolovv/checkout-service/internal/payment"
)

type WebhookVerifier interface {
	VerifyWebhook(payload []byte, header string) (payment.WebhookEvent, error)
}

type ReconcileResult struct {
	EventID   string
	EventType string
	Applied   bool
}

type webhookService struct {
	logger   *slog.Logger
	verifier WebhookVerifier
	repo     OrderRepo
	cache    Cache
}

func NewWebhookService(logger *slog.Logger, verifier WebhookVerifier, repo OrderRepo, cache Cache) *webhookService {
	return &webhookService{
		logger:   logger.With(slog.String("service", "webhook")),
		verifier: verifier,
		repo:     repo,
		cache:    cache,
	}
}

// Reconcile verifies a processor notification and applies it to the matching order.
// Redelivering the same event is a no-op. Errors for which entities.Retryable
// reports true ask the processor to deliver again later.
func (s *webhookService) Reconcile(ctx context.Context, payload []byte, header string) (ReconcileResult, error) {
	event, err := s.verifier.VerifyWebhook(payload, header)
	if err != nil {
		webhookEvents.WithLabelValues("unknown", "rejected").Inc()
		s.logger.WarnContext(ctx, "webhook rejected", slog.Any("error", err))
		return ReconcileResult{}, err
	}

	result := ReconcileResult{EventID: event.ID, EventType: event.ProcessorType}
	logger := s.logger.With(
		slog.String("event_id", event.ID),
		slog.String("event_type", event.ProcessorType),
		slog.String("payment_reference", event.PaymentReference),
	)

	if event.Type == payment.EventIgnored {
		webhookEvents.WithLabelValues(string(event.Type), "ignored").Inc()
		logger.DebugContext(ctx, "webhook event ignored")
		return result, nil
	}

	if event.PaymentReference == "" {
		webhookEvents.WithLabelValues(string(event.Type), "ignored").Inc()
		logger.InfoContext(ctx, "webhook event has no payment reference")
		return result, nil
	}

	order, err := s.repo.FindByPaymentReference(ctx, event.PaymentReference)
	if errors.Is(err, entities.ErrOrderNotFound) {
		webhookEvents.WithLabelValues(string(event.Type), "retry").Inc()
		logger.InfoContext(ctx, "order for payment not found yet")
		return result, fmt.Errorf("%w: payment %s", entities.ErrOrderNotFoundRetryable, event.PaymentReference)
	}
	if err != nil {
		webhookEvents.WithLabelValues(string(event.Type), "error").Inc()
		return result, fmt.Errorf("failed to find order: %w", err)
	}
	logger = logger.With(slog.String("order_number", order.OrderNumber))

	var applied bool
	switch event.Type {
	case payment.EventPaymentSucceeded:
		applied, err = s.paymentSucceeded(ctx, logger, order, event)
	case payment.EventPaymentFailed:
		applied, err = s.paymentFailed(ctx, logger, order)
	case payment.EventChargeRefunded:
		applied, err = s.chargeRefunded(ctx, logger, order, event)
	}
	if err != nil {
		outcome := "error"
		if entities.Retryable(err) {
			outcome = "retry"
		}
		webhookEvents.WithLabelValues(string(event.Type), outcome).Inc()
		return result, err
	}

	outcome := "noop"
	if applied {
		outcome = "applied"
		s.cache.Delete(order.OrderNumber)
	}
	webhookEvents.WithLabelValues(string(event.Type), outcome).Inc()

	result.Applied = applied
	return result, nil
}

func (s *webhookService) paymentSucceeded(ctx context.Context, logger *slog.Logger, order entities.Order, event payment.WebhookEvent) (bool, error) {
	if order.PaymentStatus != entities.PaymentStatusPending {
		logger.InfoContext(ctx, "payment already settled", slog.String("payment_status", string(order.PaymentStatus)))
		return false, nil
	}

	if event.Amount != order.AmountMinor() {
		amountMismatches.Inc()
		logger.WarnContext(ctx, "payment amount mismatch",
			slog.Int64("received", event.Amount),
			slog.Int64("expected", order.AmountMinor()),
			slog.String("currency", event.Currency),
			slog.Any("error", entities.ErrAmountMismatch),
		)
	}

	upd := entities.PaymentUpdate{
		PaymentStatus: entities.PaymentStatusPaid,
		Expected:      ptr(entities.PaymentStatusPending),
	}
	// a cancelled order stays cancelled
	if order.Status == entities.OrderStatusPending {
		upd.Status = ptr(entities.OrderStatusProcessing)
	}
	return s.applyPayment(ctx, logger, order, upd)
}

func (s *webhookService) paymentFailed(ctx context.Context, logger *slog.Logger, order entities.Order) (bool, error) {
	if order.PaymentStatus != entities.PaymentStatusPending {
		logger.InfoContext(ctx, "payment failure ignored", slog.String("payment_status", string(order.PaymentStatus)))
		return false, nil
	}

	return s.applyPayment(ctx, logger, order, entities.PaymentUpdate{
		PaymentStatus: entities.PaymentStatusFailed,
		Expected:      ptr(entities.PaymentStatusPending),
	})
}

func (s *webhookService) chargeRefunded(ctx context.Context, logger *slog.Logger, order entities.Order, event payment.WebhookEvent) (bool, error) {
	switch {
	case order.PaymentStatus == entities.PaymentStatusRefunded:
		logger.InfoContext(ctx, "order already refunded")
		return false, nil
	case !event.FullRefund:
		logger.InfoContext(ctx, "partial refund recorded without status change",
			slog.Int64("amount_refunded", event.AmountRefunded),
			slog.Int64("amount", event.Amount),
		)
		return false, nil
	case order.PaymentStatus == entities.PaymentStatusPending:
		return false, fmt.Errorf("%w: order %s", entities.ErrPaymentNotSettledRetryable, order.OrderNumber)
	case order.PaymentStatus != entities.PaymentStatusPaid:
		logger.InfoContext(ctx, "refund ignored", slog.String("payment_status", string(order.PaymentStatus)))
		return false, nil
	}

	return s.applyPayment(ctx, logger, order, entities.PaymentUpdate{
		PaymentStatus: entities.PaymentStatusRefunded,
		Expected:      ptr(entities.PaymentStatusPaid),
	})
}

func (s *webhookService) applyPayment(ctx context.Context, logger *slog.Logger, order entities.Order, upd entities.PaymentUpdate) (bool, error) {
	updated, applied, err := s.repo.UpdatePaymentStatus(ctx, order.ID, upd)
	if err != nil {
		return false, fmt.Errorf("failed to update payment status: %w", err)
	}
	if !applied {
		logger.InfoContext(ctx, "payment status changed concurrently",
			slog.String("payment_status", string(updated.PaymentStatus)),
		)
		return false, nil
	}

	logger.InfoContext(ctx, "payment status updated",
		slog.String("from", string(order.PaymentStatus)),
		slog.String("to", string(updated.PaymentStatus)),
		slog.String("status", string(updated.Status)),
	)
	return true, nil
}

func ptr[T any](v T) *T {
	return &v
}
