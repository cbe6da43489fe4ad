package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/shopspring/decimal"
)

// AuthorizationResult is the outcome of a single authorization attempt.
// A decline is reported with Success=false, never as an error.
type AuthorizationResult struct {
	Success       bool
	Pending       bool
	TransactionID string
	FailureReason string
}

type Processor interface {
	Authorize(ctx context.Context, amountMinor int64, currency, token string) (AuthorizationResult, error)
}

type Gateway struct {
	logger    *slog.Logger
	processor Processor
	verifier  *WebhookVerifier
}

func NewGateway(logger *slog.Logger, processor Processor, verifier *WebhookVerifier) *Gateway {
	return &Gateway{
		logger:    logger.With(slog.String("service", "payment")),
		processor: processor,
		verifier:  verifier,
	}
}

func (g *Gateway) Authorize(ctx context.Context, amount decimal.Decimal, currency string, method entities.PaymentMethod, token string) (AuthorizationResult, error) {
	if method.Deferred() {
		// settled out of band, nothing to call
		return AuthorizationResult{Success: true, Pending: true}, nil
	}
	if token == "" {
		return AuthorizationResult{}, fmt.Errorf("%w: payment token is required for %s", entities.ErrInvalidRequest, method)
	}

	res, err := g.processor.Authorize(ctx, entities.ToMinor(amount), currency, token)
	if err != nil {
		return AuthorizationResult{}, err
	}

	g.logger.DebugContext(ctx, "payment authorized",
		slog.String("method", string(method)),
		slog.Bool("success", res.Success),
		slog.Bool("pending", res.Pending),
		slog.String("transaction_id", res.TransactionID),
	)
	return res, nil
}

func (g *Gateway) VerifyWebhook(payload []byte, header string) (WebhookEvent, error) {
	return g.verifier.Verify(payload, header)
}
