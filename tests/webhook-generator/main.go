// webhook-generator publishes signed payment_intent.succeeded deliveries to the
// webhook topic. Every delivery is sent twice to exercise duplicate handling.
//
//	go run ./tests/webhook-generator -ref pi_123 -amount 10279
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

func main() {
	brokers := flag.String("brokers", "localhost:9092", "kafka broker address")
	topic := flag.String("topic", "payment-webhooks", "webhook topic")
	ref := flag.String("ref", "", "payment reference (PaymentIntent id)")
	amount := flag.Int64("amount", 0, "captured amount in minor units")
	interval := flag.Duration("interval", 2*time.Second, "delay between deliveries")
	flag.Parse()

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if *ref == "" || secret == "" {
		log.Fatal("-ref and STRIPE_WEBHOOK_SECRET are required")
	}

	writer := &kafka.Writer{
		Addr:  kafka.TCP(*brokers),
		Topic: *topic,
	}
	defer writer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			msg := signedDelivery(secret, *ref, *amount)
			if err := writer.WriteMessages(ctx, msg, msg); err != nil {
				log.Println("failed to publish:", err)
				continue
			}
			log.Println("delivery published twice", string(msg.Key))
		case <-ctx.Done():
			return
		}
	}
}

func signedDelivery(secret, ref string, amount int64) kafka.Message {
	eventID := "evt_" + uuid.NewString()
	payload := []byte(fmt.Sprintf(
		`{"id":%q,"object":"event","api_version":%q,"type":"payment_intent.succeeded","data":{"object":{"id":%q,"object":"payment_intent","amount":%d,"amount_received":%d,"currency":"eur","status":"succeeded"}}}`,
		eventID, stripe.APIVersion, ref, amount, amount,
	))
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return kafka.Message{
		Key:     []byte(eventID),
		Value:   payload,
		Headers: []kafka.Header{{Key: "Stripe-Signature", Value: []byte(signed.Header)}},
	}
}
