package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodWallet       PaymentMethod = "wallet"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// ParsePaymentMethod accepts the canonical names plus the aliases the storefront sends.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash", "cod", "cash_on_delivery":
		return PaymentMethodCash, nil
	case "card", "credit_card", "stripe":
		return PaymentMethodCard, nil
	case "wallet", "paypal":
		return PaymentMethodWallet, nil
	case "bank_transfer":
		return PaymentMethodBankTransfer, nil
	}
	return "", fmt.Errorf("%w: unknown payment method %q", ErrInvalidRequest, s)
}

// Deferred reports whether settlement happens out of band (no processor call at checkout).
func (m PaymentMethod) Deferred() bool {
	return m == PaymentMethodCash || m == PaymentMethodBankTransfer
}

type Address struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Company    string `json:"company,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Province   string `json:"province,omitempty"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

func (a Address) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

type ShippingMethod struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Price         decimal.Decimal     `json:"price"`
	FreeOver      decimal.NullDecimal `json:"free_over"`
	EstimatedDays int                 `json:"estimated_days,omitempty"`
}

// Totals are immutable once built; use NewTotals.
type Totals struct {
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
}

func NewTotals(subtotal, shippingCost, tax decimal.Decimal) Totals {
	return Totals{
		Subtotal:     subtotal,
		ShippingCost: shippingCost,
		Tax:          tax,
		Total:        subtotal.Add(shippingCost).Add(tax),
	}
}

func (t Totals) Valid() bool {
	return t.Total.Equal(t.Subtotal.Add(t.ShippingCost).Add(t.Tax))
}

type ProductSnapshot struct {
	Name       string            `json:"name"`
	SKU        string            `json:"sku,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type LineItem struct {
	ID        int64
	ProductID int64
	Snapshot  ProductSnapshot
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

func NewLineItem(productID int64, snapshot ProductSnapshot, quantity int, unitPrice decimal.Decimal) LineItem {
	return LineItem{
		ProductID: productID,
		Snapshot:  snapshot,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

type Order struct {
	ID          int64
	OrderNumber string
	Customer    Customer

	Status           OrderStatus
	PaymentMethod    PaymentMethod
	PaymentStatus    PaymentStatus
	PaymentReference string

	Totals   Totals
	Currency string

	ShippingAddress Address
	BillingAddress  Address
	ShippingMethod  ShippingMethod
	CustomerNotes   string

	Items []LineItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AmountMinor returns the total in currency minor units, as payment processors expect it.
func (o Order) AmountMinor() int64 {
	return ToMinor(o.Totals.Total)
}

// Validate checks the invariants every order must hold before it is persisted.
func (o Order) Validate() error {
	if o.OrderNumber == "" {
		return fmt.Errorf("%w: order number is required", ErrInvalidOrder)
	}
	if o.Customer == nil {
		return fmt.Errorf("%w: customer is required", ErrInvalidOrder)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("%w: order has no line items", ErrInvalidOrder)
	}
	for _, it := range o.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: product %d has non-positive quantity", ErrInvalidOrder, it.ProductID)
		}
	}
	if !o.Totals.Valid() {
		return fmt.Errorf("%w: total does not match its components", ErrInvalidOrder)
	}
	return nil
}

// PaymentUpdate is a compare-and-set on the payment status.
// When Expected is set and differs from the stored value nothing is written.
type PaymentUpdate struct {
	PaymentStatus PaymentStatus
	Status        *OrderStatus
	Expected      *PaymentStatus
}

// StatusChange is a compare-and-set on the fulfilment status.
type StatusChange struct {
	From      OrderStatus
	To        OrderStatus
	ChangedBy string
	Notes     string
}

func ToMinor(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func FromMinor(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}
