package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/SergeyBogomolovv/checkout-service/internal/config"
	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/SergeyBogomolovv/checkout-service/pkg/utils"
	"github.com/segmentio/kafka-go"
)

const (
	HeaderDeliveryAttempt = "x-delivery-attempt"
	// HeaderNotBefore holds the unix millisecond time before which a redelivery is not processed.
	HeaderNotBefore = "x-not-before"
)

// RedeliveryPolicy bounds how often and how soon a retryable webhook is consumed again.
type RedeliveryPolicy struct {
	MaxRedeliveries int
	Backoff         utils.RetryConfig
}

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// kafkaHandler consumes queued webhook deliveries: the message value is the raw body
// and the Stripe-Signature header carries the processor signature.
type kafkaHandler struct {
	logger   *slog.Logger
	reader   MessageReader
	producer MessageWriter
	policy   RedeliveryPolicy
	svc      WebhookReconciler
}

func NewKafkaHandler(logger *slog.Logger, cfg config.Kafka, svc WebhookReconciler) *kafkaHandler {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   cfg.WebhookTopic,
		MaxWait: cfg.ReaderMaxWait,
	})
	producer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: cfg.BatchTimeout,
	}
	policy := RedeliveryPolicy{
		MaxRedeliveries: cfg.MaxRedeliveries,
		Backoff: utils.RetryConfig{
			InitialDelay: cfg.RedeliveryBackoff,
			MaxDelay:     cfg.MaxRedeliveryBackoff,
			Multiplier:   2,
		},
	}
	return NewKafkaHandlerWith(logger, reader, producer, policy, svc)
}

func NewKafkaHandlerWith(logger *slog.Logger, reader MessageReader, producer MessageWriter, policy RedeliveryPolicy, svc WebhookReconciler) *kafkaHandler {
	return &kafkaHandler{
		logger:   logger.With(slog.String("handler", "kafka")),
		reader:   reader,
		producer: producer,
		policy:   policy,
		svc:      svc,
	}
}

func (h *kafkaHandler) Consume(ctx context.Context) {
	for {
		m, err := h.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				break
			}
			h.logger.Error("failed to fetch message", slog.Any("error", err))
			continue
		}

		// redeliveries share the topic, so a delayed message holds back its partition until due
		if err := h.waitUntilDue(ctx, m); err != nil {
			break
		}

		if err := h.handle(ctx, m); err != nil {
			// left uncommitted, consumed again after a restart or rebalance
			h.logger.Error("failed to route message", slog.Any("error", err))
			continue
		}

		if err := h.reader.CommitMessages(ctx, m); err != nil {
			commitErrors.Inc()
			h.logger.Error("failed to commit message", slog.Any("error", err))
		}
	}
}

// handle returns an error only when the message could not be routed anywhere.
func (h *kafkaHandler) handle(ctx context.Context, m kafka.Message) error {
	webhooksInProgress.Inc()
	defer webhooksInProgress.Dec()

	start := time.Now()
	defer func() {
		webhookProcessingDuration.Observe(time.Since(start).Seconds())
	}()

	res, err := h.svc.Reconcile(ctx, m.Value, header(m, HeaderStripeSignature))
	if err == nil {
		webhooksProcessed.Inc()
		h.logger.Debug("webhook reconciled",
			slog.String("event_id", res.EventID),
			slog.String("event_type", res.EventType),
			slog.Bool("applied", res.Applied),
		)
		return nil
	}

	webhooksFailed.Inc()
	attempt := deliveryAttempt(m)
	logger := h.logger.With(slog.Int("attempt", attempt), slog.Any("error", err))

	if errors.Is(err, entities.ErrSignatureInvalid) {
		logger.Warn("webhook signature invalid, sending to DLQ")
		return h.WriteToDLQ(ctx, m)
	}

	if attempt > h.policy.MaxRedeliveries {
		logger.Error("webhook redeliveries exhausted, sending to DLQ")
		return h.WriteToDLQ(ctx, m)
	}

	delay := h.policy.Backoff.Backoff(attempt)
	logger.Info("webhook scheduled for redelivery", slog.Duration("delay", delay))
	return h.redeliver(ctx, m, attempt+1, time.Now().Add(delay))
}

func (h *kafkaHandler) redeliver(ctx context.Context, m kafka.Message, attempt int, notBefore time.Time) error {
	headers := withHeader(m.Headers, HeaderDeliveryAttempt, strconv.Itoa(attempt))
	out := kafka.Message{
		Topic:   m.Topic,
		Key:     m.Key,
		Value:   m.Value,
		Headers: withHeader(headers, HeaderNotBefore, strconv.FormatInt(notBefore.UnixMilli(), 10)),
	}
	if err := h.producer.WriteMessages(ctx, out); err != nil {
		return fmt.Errorf("failed to redeliver message: %w", err)
	}
	webhooksRedelivered.Inc()
	return nil
}

// waitUntilDue blocks until the message's not-before time, never longer than the
// maximum backoff. It returns ctx.Err() if ctx ends first.
func (h *kafkaHandler) waitUntilDue(ctx context.Context, m kafka.Message) error {
	ms, err := strconv.ParseInt(header(m, HeaderNotBefore), 10, 64)
	if err != nil {
		return nil
	}
	wait := time.Until(time.UnixMilli(ms))
	if wait <= 0 {
		return nil
	}
	if limit := h.policy.Backoff.MaxDelay; limit > 0 && wait > limit {
		wait = limit
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (h *kafkaHandler) WriteToDLQ(ctx context.Context, m kafka.Message) error {
	out := kafka.Message{
		Topic:   fmt.Sprintf("%s-dlq", m.Topic),
		Key:     m.Key,
		Value:   m.Value,
		Headers: m.Headers,
	}
	if err := h.producer.WriteMessages(ctx, out); err != nil {
		return fmt.Errorf("failed to write message to DLQ: %w", err)
	}
	webhooksDLQ.Inc()
	return nil
}

func (h *kafkaHandler) Close() error {
	if err := h.reader.Close(); err != nil {
		return err
	}
	return h.producer.Close()
}

func header(m kafka.Message, key string) string {
	for _, hdr := range m.Headers {
		if hdr.Key == key {
			return string(hdr.Value)
		}
	}
	return ""
}

// deliveryAttempt counts from 1; a missing or broken header means first delivery.
func deliveryAttempt(m kafka.Message) int {
	n, err := strconv.Atoi(header(m, HeaderDeliveryAttempt))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func withHeader(headers []kafka.Header, key, value string) []kafka.Header {
	out := make([]kafka.Header, 0, len(headers)+1)
	for _, hdr := range headers {
		if hdr.Key != key {
			out = append(out, hdr)
		}
	}
	return append(out, kafka.Header{Key: key, Value: []byte(value)})
}
