package entities

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrEmptyOrder         = errors.New("order has no items")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")
	ErrPaymentDeclined    = errors.New("payment declined")
	ErrPaymentUnavailable = errors.New("payment gateway unavailable")
	ErrPersistenceFailure = errors.New("failed to persist order")

	ErrSignatureInvalid           = errors.New("webhook signature invalid")
	ErrOrderNotFoundRetryable     = errors.New("order not found yet, retry later")
	ErrPaymentNotSettledRetryable = errors.New("payment not settled yet, retry later")
	ErrAmountMismatch             = errors.New("received amount does not match order total")

	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderNumberConflict = errors.New("order number already exists")
	ErrInvalidOrder        = errors.New("invalid order")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrIdempotencyConflict = errors.New("request with this idempotency key is in progress")
)

// Retryable reports whether the caller should redeliver the same input later.
func Retryable(err error) bool {
	return errors.Is(err, ErrOrderNotFoundRetryable) ||
		errors.Is(err, ErrPaymentNotSettledRetryable) ||
		errors.Is(err, ErrOrderNumberConflict)
}

var codes = []struct {
	err  error
	code string
}{
	{ErrEmptyOrder, "empty_order"},
	{ErrProductNotFound, "product_not_found"},
	{ErrProductUnavailable, "product_unavailable"},
	{ErrPaymentDeclined, "payment_declined"},
	{ErrPaymentUnavailable, "payment_unavailable"},
	{ErrPersistenceFailure, "persistence_failure"},
	{ErrSignatureInvalid, "signature_invalid"},
	{ErrOrderNotFoundRetryable, "order_not_found_retryable"},
	{ErrPaymentNotSettledRetryable, "payment_not_settled_retryable"},
	{ErrOrderNotFound, "order_not_found"},
	{ErrInvalidTransition, "invalid_transition"},
	{ErrIdempotencyConflict, "idempotency_conflict"},
	{ErrInvalidRequest, "invalid_request"},
	{ErrInvalidOrder, "invalid_request"},
}

// Code maps an error to the machine-readable code returned to clients.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal"
}
