package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/SergeyBogomolovv/checkout-service/internal/service"
	"github.com/SergeyBogomolovv/checkout-service/pkg/utils"
	"github.com/go-chi/chi/v5"
)

const (
	HeaderStripeSignature = "Stripe-Signature"

	maxWebhookBody = 1 << 16
)

type WebhookReconciler interface {
	Reconcile(ctx context.Context, payload []byte, header string) (service.ReconcileResult, error)
}

type WebhookHandler struct {
	logger *slog.Logger
	svc    WebhookReconciler
}

func NewWebhookHandler(logger *slog.Logger, svc WebhookReconciler) *WebhookHandler {
	return &WebhookHandler{
		logger: logger.With(slog.String("handler", "webhook")),
		svc:    svc,
	}
}

func (h *WebhookHandler) Init(r chi.Router) {
	r.Post("/webhooks/stripe", h.Stripe)
}

// Stripe receives payment processor notifications.
// @Summary      Payment processor webhook
// @Description  Verifies the signature and reconciles the order payment status. 503 asks the processor to redeliver.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature  header    string  true  "Processor signature"
// @Success      200  {object}  WebhookResponse
// @Failure      400  {object}  utils.ErrorResponse "Signature invalid"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Failure      503  {object}  utils.ErrorResponse "Retry later"
// @Router       /webhooks/stripe [post]
func (h *WebhookHandler) Stripe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		utils.WriteError(w, entities.Code(entities.ErrInvalidRequest), "failed to read body", http.StatusBadRequest)
		return
	}

	res, err := h.svc.Reconcile(ctx, payload, r.Header.Get(HeaderStripeSignature))
	switch {
	case errors.Is(err, entities.ErrSignatureInvalid):
		utils.WriteError(w, entities.Code(err), "invalid signature", http.StatusBadRequest)
		return
	case entities.Retryable(err):
		utils.WriteError(w, entities.Code(err), err.Error(), http.StatusServiceUnavailable)
		return
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to reconcile webhook", slog.Any("error", err))
		utils.WriteError(w, entities.Code(err), "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, WebhookResponse{
		Received:  true,
		EventID:   res.EventID,
		EventType: res.EventType,
	}, http.StatusOK)
}
