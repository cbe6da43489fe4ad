package handler_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/SergeyBogomolovv/checkout-service/internal/handler"
	mocks "github.com/SergeyBogomolovv/checkout-service/internal/handler/mocks"
	"github.com/SergeyBogomolovv/checkout-service/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const validBody = `{
	"session_id": "sess-1",
	"guest_email": "guest@example.com",
	"items": [{"product_id": 1, "quantity": 2, "price": "0.01"}],
	"shipping_address": {"first_name": "Ana", "last_name": "Garcia", "street": "Calle Mayor 1", "city": "Madrid", "postal_code": "28013", "country": "ES"},
	"payment_method": "credit_card",
	"payment_token": "pm_card_visa",
	"shipping_method": "express"
}`

func createdOrder() entities.Order {
	return entities.Order{
		ID:            42,
		OrderNumber:   "ORD-1-AAAAAA",
		Status:        entities.OrderStatusProcessing,
		PaymentStatus: entities.PaymentStatusPaid,
		Currency:      "EUR",
		Totals:        entities.NewTotals(decimal.RequireFromString("80"), decimal.RequireFromString("12.99"), decimal.RequireFromString("16.8")),
	}
}

func TestHTTPHandler_CreateOrder(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		headers      map[string]string
		mockBehavior func(svc *mocks.MockOrderService)
		wantStatus   int
		wantBody     string
	}{
		{
			name: "guest checkout",
			body: validBody,
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().
					CreateOrder(mock.Anything, mock.MatchedBy(func(in service.CreateOrderInput) bool {
						g, ok := in.Customer.(entities.Guest)
						return ok && g.Email == "guest@example.com" &&
							in.PaymentMethod == entities.PaymentMethodCard &&
							in.ShippingMethodID == "express" &&
							in.ShippingAddress != nil && in.BillingAddress == nil &&
							len(in.Items) == 1 && in.Items[0].ClientUnitPrice.Equal(decimal.RequireFromString("0.01"))
					})).
					Return(createdOrder(), nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"order_number":"ORD-1-AAAAAA","total":"109.79"`,
		},
		{
			name:    "authenticated checkout",
			body:    validBody,
			headers: map[string]string{handler.HeaderUserID: "user-7", handler.HeaderUserEmail: "user@example.com"},
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().
					CreateOrder(mock.Anything, mock.MatchedBy(func(in service.CreateOrderInput) bool {
						a, ok := in.Customer.(entities.Authenticated)
						return ok && a.UserID == "user-7" && a.Email == "user@example.com"
					})).
					Return(createdOrder(), nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"payment_status":"paid"`,
		},
		{
			name:    "idempotency key is passed on",
			body:    validBody,
			headers: map[string]string{"Idempotency-Key": " checkout-7f3a "},
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().
					CreateOrder(mock.Anything, mock.MatchedBy(func(in service.CreateOrderInput) bool {
						return in.IdempotencyKey == "checkout-7f3a"
					})).
					Return(createdOrder(), nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"order_number":"ORD-1-AAAAAA"`,
		},
		{
			name:    "authenticated checkout without email",
			body:    strings.Replace(validBody, `"guest_email": "guest@example.com",`, "", 1),
			headers: map[string]string{handler.HeaderUserID: "user-7"},
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().
					CreateOrder(mock.Anything, mock.MatchedBy(func(in service.CreateOrderInput) bool {
						a, ok := in.Customer.(entities.Authenticated)
						return ok && a.UserID == "user-7" && a.Email == ""
					})).
					Return(createdOrder(), nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"order_number":"ORD-1-AAAAAA"`,
		},
		{
			name:         "malformed json",
			body:         `{"session_id":`,
			mockBehavior: func(*mocks.MockOrderService) {},
			wantStatus:   http.StatusBadRequest,
			wantBody:     `"code":"invalid_request"`,
		},
		{
			name:         "missing shipping address",
			body:         `{"session_id":"s","items":[{"product_id":1,"quantity":1}],"payment_method":"cash"}`,
			mockBehavior: func(*mocks.MockOrderService) {},
			wantStatus:   http.StatusBadRequest,
			wantBody:     `"ShippingAddress":"required"`,
		},
		{
			name:         "zero quantity",
			body:         strings.Replace(validBody, `"quantity": 2`, `"quantity": 0`, 1),
			mockBehavior: func(*mocks.MockOrderService) {},
			wantStatus:   http.StatusBadRequest,
			wantBody:     `"Quantity":"gt"`,
		},
		{
			name:         "unknown payment method",
			body:         strings.Replace(validBody, `"credit_card"`, `"bitcoin"`, 1),
			mockBehavior: func(*mocks.MockOrderService) {},
			wantStatus:   http.StatusBadRequest,
			wantBody:     `"code":"invalid_request"`,
		},
		{
			name: "empty cart",
			body: strings.Replace(validBody, `[{"product_id": 1, "quantity": 2, "price": "0.01"}]`, `[]`, 1),
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().CreateOrder(mock.Anything, mock.Anything).Return(entities.Order{}, entities.ErrEmptyOrder).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"code":"empty_order"`,
		},
		{
			name: "product unavailable",
			body: validBody,
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().CreateOrder(mock.Anything, mock.Anything).Return(entities.Order{}, entities.ErrProductUnavailable).Once()
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `"code":"product_unavailable"`,
		},
		{
			name: "payment declined",
			body: validBody,
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().CreateOrder(mock.Anything, mock.Anything).Return(entities.Order{}, entities.ErrPaymentDeclined).Once()
			},
			wantStatus: http.StatusPaymentRequired,
			wantBody:   `"code":"payment_declined"`,
		},
		{
			name: "gateway unavailable",
			body: validBody,
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().CreateOrder(mock.Anything, mock.Anything).Return(entities.Order{}, entities.ErrPaymentUnavailable).Once()
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   `"code":"payment_unavailable"`,
		},
		{
			name: "persistence failure",
			body: validBody,
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().CreateOrder(mock.Anything, mock.Anything).Return(entities.Order{}, entities.ErrPersistenceFailure).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"code":"persistence_failure"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewMockOrderService(t)
			tc.mockBehavior(svc)

			h := handler.NewHTTPHandler(testLogger(), svc, nil)
			r := chi.NewRouter()
			h.Init(r)

			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tc.body))
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.wantBody)
		})
	}
}

func TestHTTPHandler_GetOrder(t *testing.T) {
	order := createdOrder()
	order.Customer = entities.Guest{Email: "guest@example.com"}
	order.Items = []entities.LineItem{
		entities.NewLineItem(1, entities.ProductSnapshot{Name: "Rioja Reserva"}, 2, decimal.RequireFromString("40")),
	}

	testCases := []struct {
		name         string
		mockBehavior func(svc *mocks.MockOrderService)
		wantStatus   int
		wantBody     string
	}{
		{
			name: "success",
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().GetOrder(mock.Anything, "ORD-1-AAAAAA").Return(order, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"line_total":"80.00"`,
		},
		{
			name: "not found",
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().GetOrder(mock.Anything, "ORD-1-AAAAAA").Return(entities.Order{}, entities.ErrOrderNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `"code":"order_not_found"`,
		},
		{
			name: "internal error",
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().GetOrder(mock.Anything, "ORD-1-AAAAAA").Return(entities.Order{}, errors.New("db error")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"internal server error"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewMockOrderService(t)
			tc.mockBehavior(svc)

			h := handler.NewHTTPHandler(testLogger(), svc, nil)
			r := chi.NewRouter()
			h.Init(r)

			req := httptest.NewRequest(http.MethodGet, "/orders/ORD-1-AAAAAA", nil)
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.wantBody)
		})
	}
}

func TestHTTPHandler_UpdateStatus(t *testing.T) {
	shipped := createdOrder()
	shipped.Status = entities.OrderStatusShipped

	testCases := []struct {
		name         string
		body         string
		mockBehavior func(svc *mocks.MockOrderService)
		wantStatus   int
		wantBody     string
	}{
		{
			name: "success",
			body: `{"status":"shipped","changed_by":"admin@example.com","notes":"tracking 123"}`,
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().
					UpdateStatus(mock.Anything, "ORD-1-AAAAAA", entities.OrderStatusShipped, "admin@example.com", "tracking 123").
					Return(shipped, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"status":"shipped"`,
		},
		{
			name:         "unknown status",
			body:         `{"status":"lost","changed_by":"admin@example.com"}`,
			mockBehavior: func(*mocks.MockOrderService) {},
			wantStatus:   http.StatusBadRequest,
			wantBody:     `"Status":"oneof"`,
		},
		{
			name: "invalid transition",
			body: `{"status":"pending","changed_by":"admin@example.com"}`,
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().UpdateStatus(mock.Anything, "ORD-1-AAAAAA", entities.OrderStatusPending, "admin@example.com", "").
					Return(entities.Order{}, entities.ErrInvalidTransition).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"code":"invalid_transition"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewMockOrderService(t)
			tc.mockBehavior(svc)

			h := handler.NewHTTPHandler(testLogger(), svc, nil)
			r := chi.NewRouter()
			h.Init(r)

			req := httptest.NewRequest(http.MethodPatch, "/admin/orders/ORD-1-AAAAAA/status", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.wantBody)
		})
	}
}
