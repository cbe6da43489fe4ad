package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type ConfirmationItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

// OrderConfirmation is the payload of the "send order confirmation" request.
type OrderConfirmation struct {
	OrderID         int64              `json:"order_id"`
	OrderNumber     string             `json:"order_number"`
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email,omitempty"`
	UserID          string             `json:"user_id,omitempty"`
	Locale          string             `json:"locale"`
	OrderDate       time.Time          `json:"order_date"`
	Status          OrderStatus        `json:"order_status"`
	Items           []ConfirmationItem `json:"order_items"`
	ShippingAddress Address            `json:"shipping_address"`
	BillingAddress  Address            `json:"billing_address"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	ShippingCost    decimal.Decimal    `json:"shipping_cost"`
	Tax             decimal.Decimal    `json:"tax"`
	Total           decimal.Decimal    `json:"total"`
	Currency        string             `json:"currency"`
	PaymentMethod   PaymentMethod      `json:"payment_method"`
	CustomerNotes   string             `json:"customer_notes,omitempty"`
}

func NewOrderConfirmation(o Order, locale string) OrderConfirmation {
	items := make([]ConfirmationItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ConfirmationItem{
			ProductID: it.ProductID,
			Name:      it.Snapshot.Name,
			SKU:       it.Snapshot.SKU,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice,
			Total:     it.LineTotal,
		})
	}

	name := o.ShippingAddress.FullName()
	if name == "" {
		name = "Customer"
	}

	return OrderConfirmation{
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    name,
		CustomerEmail:   o.Customer.ContactEmail(),
		UserID:          UserID(o.Customer),
		Locale:          locale,
		OrderDate:       o.CreatedAt,
		Status:          o.Status,
		Items:           items,
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		Subtotal:        o.Totals.Subtotal,
		ShippingCost:    o.Totals.ShippingCost,
		Tax:             o.Totals.Tax,
		Total:           o.Totals.Total,
		Currency:        o.Currency,
		PaymentMethod:   o.PaymentMethod,
		CustomerNotes:   o.CustomerNotes,
	}
}
