package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const EventOrderConfirmationRequested = "order.confirmation_requested"

// Envelope wraps every message published to the notification topic.
type Envelope struct {
	EventID    string                     `json:"event_id"`
	Type       string                     `json:"type"`
	OccurredAt time.Time                  `json:"occurred_at"`
	Payload    entities.OrderConfirmation `json:"payload"`
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaNotifier struct {
	logger *slog.Logger
	writer MessageWriter
	now    func() time.Time
}

func NewKafkaWriter(brokers []string, topic string, batchTimeout time.Duration) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: batchTimeout,
	}
}

func NewKafkaNotifier(logger *slog.Logger, writer MessageWriter) *kafkaNotifier {
	return &kafkaNotifier{
		logger: logger.With(slog.String("service", "notifier")),
		writer: writer,
		now:    time.Now,
	}
}

// OrderConfirmed publishes a confirmation request keyed by order number,
// so all messages for one order land on the same partition.
func (n *kafkaNotifier) OrderConfirmed(ctx context.Context, confirmation entities.OrderConfirmation) error {
	data, err := json.Marshal(Envelope{
		EventID:    uuid.NewString(),
		Type:       EventOrderConfirmationRequested,
		OccurredAt: n.now().UTC(),
		Payload:    confirmation,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(confirmation.OrderNumber),
		Value: data,
		Time:  n.now().UTC(),
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish confirmation: %w", err)
	}

	n.logger.DebugContext(ctx, "confirmation requested", slog.String("order_number", confirmation.OrderNumber))
	return nil
}

func (n *kafkaNotifier) Close() error {
	return n.writer.Close()
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier is used when Kafka is disabled; it only records the request.
func NewLogNotifier(logger *slog.Logger) *logNotifier {
	return &logNotifier{logger: logger.With(slog.String("service", "notifier"))}
}

func (n *logNotifier) OrderConfirmed(ctx context.Context, confirmation entities.OrderConfirmation) error {
	n.logger.InfoContext(ctx, "confirmation requested",
		slog.String("order_number", confirmation.OrderNumber),
		slog.String("email", confirmation.CustomerEmail),
	)
	return nil
}
