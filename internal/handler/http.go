package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/SergeyBogomolovv/checkout-service/internal/service"
	"github.com/SergeyBogomolovv/checkout-service/pkg/idempotency"
	"github.com/SergeyBogomolovv/checkout-service/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

type OrderService interface {
	CreateOrder(ctx context.Context, in service.CreateOrderInput) (entities.Order, error)
	GetOrder(ctx context.Context, orderNumber string) (entities.Order, error)
	UpdateStatus(ctx context.Context, orderNumber string, to entities.OrderStatus, changedBy, notes string) (entities.Order, error)
}

type HTTPHandler struct {
	logger     *slog.Logger
	validate   *validator.Validate
	svc        OrderService
	idempotent func(http.Handler) http.Handler
}

// NewHTTPHandler wires the order routes. idempotent, when not nil, wraps order submission.
func NewHTTPHandler(logger *slog.Logger, svc OrderService, idempotent func(http.Handler) http.Handler) *HTTPHandler {
	if idempotent == nil {
		idempotent = func(next http.Handler) http.Handler { return next }
	}
	return &HTTPHandler{
		logger:     logger.With(slog.String("handler", "http")),
		validate:   validator.New(),
		svc:        svc,
		idempotent: idempotent,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.With(h.idempotent).Post("/orders", h.CreateOrder)
	r.Get("/orders/{order_number}", h.GetOrder)
	r.Patch("/admin/orders/{order_number}/status", h.UpdateStatus)
}

// CreateOrder places an order from the submitted cart.
// @Summary      Place an order
// @Description  Re-prices the cart from the catalog, authorizes payment and stores the order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string              false  "Replay-safe submission key"
// @Param        X-User-ID        header    string              false  "Authenticated user id"
// @Param        X-User-Email     header    string              false  "Authenticated user email"
// @Param        order            body      CreateOrderRequest  true   "Checkout request"
// @Success      201  {object}  CreateOrderResponse
// @Failure      400  {object}  utils.ValidationErrorResponse "Invalid request"
// @Failure      402  {object}  utils.ErrorResponse "Payment declined"
// @Failure      409  {object}  utils.ErrorResponse "Duplicate submission in progress"
// @Failure      422  {object}  utils.ErrorResponse "Product not found or unavailable"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Failure      502  {object}  utils.ErrorResponse "Payment gateway unavailable"
// @Router       /orders [post]
func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateOrderRequest
	if err := utils.DecodeBody(w, r, &req); err != nil {
		utils.WriteError(w, entities.Code(entities.ErrInvalidRequest), "malformed request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	method, err := entities.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	in := service.CreateOrderInput{
		SessionID:        req.SessionID,
		Customer:         customerFromRequest(r, req.GuestEmail),
		Items:            CartItemsToRequested(req.Items),
		PaymentMethod:    method,
		PaymentToken:     req.PaymentToken,
		ShippingMethodID: req.ShippingMethod,
		CustomerNotes:    req.CustomerNotes,
		Locale:           req.Locale,
		IdempotencyKey:   idempotency.Key(r),
		ClientSubtotal:   req.Subtotal,
		ClientTotal:      req.Total,
	}
	if req.ShippingAddress != nil {
		addr := AddressToEntity(*req.ShippingAddress)
		in.ShippingAddress = &addr
	}
	if req.BillingAddress != nil {
		addr := AddressToEntity(*req.BillingAddress)
		in.BillingAddress = &addr
	}

	order, err := h.svc.CreateOrder(ctx, in)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, CreateOrderResponseFromEntity(order), http.StatusCreated)
}

// GetOrder returns an order by its number.
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Param        order_number  path      string  true  "Order number"
// @Success      200  {object}  Order
// @Failure      404  {object}  utils.ErrorResponse "Order not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /orders/{order_number} [get]
func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderNumber := chi.URLParam(r, "order_number")

	order, err := h.svc.GetOrder(ctx, orderNumber)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, OrderFromEntity(order), http.StatusOK)
}

// UpdateStatus applies a fulfilment status transition.
// @Summary      Change order status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        order_number  path      string               true  "Order number"
// @Param        change        body      UpdateStatusRequest  true  "Target status"
// @Success      200  {object}  Order
// @Failure      400  {object}  utils.ErrorResponse "Invalid transition"
// @Failure      404  {object}  utils.ErrorResponse "Order not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /admin/orders/{order_number}/status [patch]
func (h *HTTPHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderNumber := chi.URLParam(r, "order_number")

	var req UpdateStatusRequest
	if err := utils.DecodeBody(w, r, &req); err != nil {
		utils.WriteError(w, entities.Code(entities.ErrInvalidRequest), "malformed request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	status, err := entities.ParseOrderStatus(req.Status)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	order, err := h.svc.UpdateStatus(ctx, orderNumber, status, req.ChangedBy, req.Notes)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, OrderFromEntity(order), http.StatusOK)
}

func (h *HTTPHandler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed", slog.Any("error", err))
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	utils.WriteError(w, entities.Code(err), message, status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrInvalidRequest),
		errors.Is(err, entities.ErrInvalidOrder),
		errors.Is(err, entities.ErrEmptyOrder),
		errors.Is(err, entities.ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrProductNotFound),
		errors.Is(err, entities.ErrProductUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entities.ErrPaymentDeclined):
		return http.StatusPaymentRequired
	case errors.Is(err, entities.ErrPaymentUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, entities.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrIdempotencyConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// customerFromRequest resolves the customer once: an authenticated identity wins over a guest email.
func customerFromRequest(r *http.Request, guestEmail string) entities.Customer {
	if userID := r.Header.Get(HeaderUserID); userID != "" {
		email := r.Header.Get(HeaderUserEmail)
		if email == "" {
			email = guestEmail
		}
		return entities.Authenticated{UserID: userID, Email: email}
	}
	if guestEmail != "" {
		return entities.Guest{Email: guestEmail}
	}
	return nil
}
