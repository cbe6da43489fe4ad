package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type IntentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// NewStripeIntents returns the PaymentIntents endpoint of a Stripe API client.
func NewStripeIntents(secretKey string) IntentCreator {
	return client.New(secretKey, nil).PaymentIntents
}

type StripeProcessor struct {
	intents IntentCreator
}

func NewStripeProcessor(intents IntentCreator) *StripeProcessor {
	return &StripeProcessor{intents: intents}
}

// Authorize creates and confirms a PaymentIntent for the given amount in minor units.
// An idempotency key on ctx is sent to Stripe, which then returns the original
// PaymentIntent for a repeated request instead of charging again.
func (p *StripeProcessor) Authorize(ctx context.Context, amountMinor int64, currency, token string) (AuthorizationResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountMinor),
		Currency:      stripe.String(strings.ToLower(currency)),
		PaymentMethod: stripe.String(token),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	if key := IdempotencyKey(ctx); key != "" {
		params.SetIdempotencyKey(key)
	}

	intent, err := p.intents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			res := AuthorizationResult{FailureReason: declineReason(stripeErr)}
			if stripeErr.PaymentIntent != nil {
				res.TransactionID = stripeErr.PaymentIntent.ID
			}
			return res, nil
		}
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeIdempotency {
			return AuthorizationResult{}, fmt.Errorf("%w: %s", entities.ErrIdempotencyConflict, stripeErr.Msg)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return AuthorizationResult{}, ctxErr
		}
		return AuthorizationResult{}, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return intentResult(intent), nil
}

func intentResult(intent *stripe.PaymentIntent) AuthorizationResult {
	res := AuthorizationResult{TransactionID: intent.ID}

	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		res.Success = true
	case stripe.PaymentIntentStatusProcessing,
		stripe.PaymentIntentStatusRequiresCapture,
		stripe.PaymentIntentStatusRequiresAction:
		res.Success = true
		res.Pending = true
	default:
		res.FailureReason = string(intent.Status)
		if intent.LastPaymentError != nil {
			res.FailureReason = declineReason(intent.LastPaymentError)
		}
	}
	return res
}

func declineReason(e *stripe.Error) string {
	switch {
	case e.DeclineCode != "":
		return string(e.DeclineCode)
	case e.Code != "":
		return string(e.Code)
	case e.Msg != "":
		return e.Msg
	}
	return "card_declined"
}
