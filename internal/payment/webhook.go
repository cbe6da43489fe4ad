package payment

import (
	"encoding/json"
	"fmt"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

type EventType string

const (
	EventPaymentSucceeded EventType = "payment_succeeded"
	EventPaymentFailed    EventType = "payment_failed"
	EventChargeRefunded   EventType = "charge_refunded"
	EventIgnored          EventType = "ignored"
)

// WebhookEvent is a verified processor notification reduced to what reconciliation needs.
// Amounts are in minor units.
type WebhookEvent struct {
	ID               string
	Type             EventType
	ProcessorType    string
	PaymentReference string
	ChargeID         string
	Amount           int64
	AmountRefunded   int64
	Currency         string
	FullRefund       bool
	FailureReason    string
}

type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// Verify checks the signature header against the raw body and decodes the event.
// Every failure, including an undecodable object, is reported as ErrSignatureInvalid.
func (v *WebhookVerifier) Verify(payload []byte, header string) (WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, header, v.secret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: %w", entities.ErrSignatureInvalid, err)
	}

	out := WebhookEvent{
		ID:            event.ID,
		ProcessorType: string(event.Type),
		Type:          EventIgnored,
	}
	if event.Data == nil {
		return WebhookEvent{}, fmt.Errorf("%w: event has no data", entities.ErrSignatureInvalid)
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded, stripe.EventTypePaymentIntentPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return WebhookEvent{}, fmt.Errorf("%w: failed to decode payment intent: %w", entities.ErrSignatureInvalid, err)
		}
		out.PaymentReference = intent.ID
		out.Currency = string(intent.Currency)
		out.Amount = intent.AmountReceived
		if out.Amount == 0 {
			out.Amount = intent.Amount
		}
		if event.Type == stripe.EventTypePaymentIntentSucceeded {
			out.Type = EventPaymentSucceeded
		} else {
			out.Type = EventPaymentFailed
			if intent.LastPaymentError != nil {
				out.FailureReason = declineReason(intent.LastPaymentError)
			}
		}

	case stripe.EventTypeChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return WebhookEvent{}, fmt.Errorf("%w: failed to decode charge: %w", entities.ErrSignatureInvalid, err)
		}
		out.Type = EventChargeRefunded
		out.ChargeID = charge.ID
		if charge.PaymentIntent != nil {
			out.PaymentReference = charge.PaymentIntent.ID
		}
		out.Currency = string(charge.Currency)
		out.Amount = charge.Amount
		out.AmountRefunded = charge.AmountRefunded
		out.FullRefund = charge.Refunded || (charge.Amount > 0 && charge.AmountRefunded >= charge.Amount)
	}

	return out, nil
}
