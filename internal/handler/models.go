package handler

import (
	"time"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/SergeyBogomolovv/checkout-service/internal/pricing"
	"github.com/shopspring/decimal"
)

// Address is a postal address
type Address struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Company    string `json:"company,omitempty" validate:"max=200"`
	Street     string `json:"street" validate:"required,max=255"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Province   string `json:"province,omitempty" validate:"max=100"`
	Country    string `json:"country" validate:"required,iso3166_1_alpha2"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,e164"`
}

// CartItem is a cart line; price is informational only
type CartItem struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	Price     decimal.Decimal `json:"price,omitempty" swaggertype:"string"`
}

// CreateOrderRequest submits the cart for checkout
type CreateOrderRequest struct {
	SessionID       string              `json:"session_id" validate:"required"`
	GuestEmail      string              `json:"guest_email,omitempty" validate:"omitempty,email"`
	Items           []CartItem          `json:"items" validate:"dive"`
	ShippingAddress *Address            `json:"shipping_address" validate:"required"`
	BillingAddress  *Address            `json:"billing_address,omitempty"`
	PaymentMethod   string              `json:"payment_method" validate:"required"`
	PaymentToken    string              `json:"payment_token,omitempty"`
	ShippingMethod  string              `json:"shipping_method,omitempty"`
	CustomerNotes   string              `json:"customer_notes,omitempty" validate:"max=1000"`
	Locale          string              `json:"locale,omitempty" validate:"omitempty,bcp47_language_tag"`
	Subtotal        decimal.NullDecimal `json:"subtotal,omitempty" swaggertype:"string"`
	Total           decimal.NullDecimal `json:"total,omitempty" swaggertype:"string"`
}

// CreateOrderResponse is returned for a placed order
type CreateOrderResponse struct {
	OrderID       int64  `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	Total         string `json:"total"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

type OrderItem struct {
	ProductID int64             `json:"product_id"`
	Name      string            `json:"name"`
	SKU       string            `json:"sku,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
	Quantity  int               `json:"quantity"`
	UnitPrice string            `json:"unit_price"`
	LineTotal string            `json:"line_total"`
}

// Order is the public view of a stored order
type Order struct {
	OrderNumber     string      `json:"order_number"`
	Status          string      `json:"status"`
	PaymentStatus   string      `json:"payment_status"`
	PaymentMethod   string      `json:"payment_method"`
	CustomerEmail   string      `json:"customer_email"`
	Currency        string      `json:"currency"`
	Subtotal        string      `json:"subtotal"`
	ShippingCost    string      `json:"shipping_cost"`
	Tax             string      `json:"tax"`
	Total           string      `json:"total"`
	ShippingMethod  string      `json:"shipping_method"`
	ShippingAddress Address     `json:"shipping_address"`
	BillingAddress  Address     `json:"billing_address"`
	CustomerNotes   string      `json:"customer_notes,omitempty"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// UpdateStatusRequest moves an order along the fulfilment workflow
type UpdateStatusRequest struct {
	Status    string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
	ChangedBy string `json:"changed_by" validate:"required,max=255"`
	Notes     string `json:"notes,omitempty" validate:"max=1000"`
}

// WebhookResponse acknowledges a processed webhook
type WebhookResponse struct {
	Received  bool   `json:"received"`
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
}

func AddressToEntity(a Address) entities.Address {
	return entities.Address{
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Company:    a.Company,
		Street:     a.Street,
		City:       a.City,
		PostalCode: a.PostalCode,
		Province:   a.Province,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

func AddressFromEntity(a entities.Address) Address {
	return Address{
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Company:    a.Company,
		Street:     a.Street,
		City:       a.City,
		PostalCode: a.PostalCode,
		Province:   a.Province,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

func CartItemsToRequested(items []CartItem) []pricing.RequestedItem {
	out := make([]pricing.RequestedItem, 0, len(items))
	for _, it := range items {
		out = append(out, pricing.RequestedItem{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			ClientUnitPrice: it.Price,
		})
	}
	return out
}

func CreateOrderResponseFromEntity(o entities.Order) CreateOrderResponse {
	return CreateOrderResponse{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		Total:         o.Totals.Total.StringFixed(2),
		Currency:      o.Currency,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
	}
}

func OrderFromEntity(o entities.Order) Order {
	items := make([]OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItem{
			ProductID: it.ProductID,
			Name:      it.Snapshot.Name,
			SKU:       it.Snapshot.SKU,
			Options:   it.Snapshot.Attributes,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
			LineTotal: it.LineTotal.StringFixed(2),
		})
	}

	var email string
	if o.Customer != nil {
		email = o.Customer.ContactEmail()
	}

	return Order{
		OrderNumber:     o.OrderNumber,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		PaymentMethod:   string(o.PaymentMethod),
		CustomerEmail:   email,
		Currency:        o.Currency,
		Subtotal:        o.Totals.Subtotal.StringFixed(2),
		ShippingCost:    o.Totals.ShippingCost.StringFixed(2),
		Tax:             o.Totals.Tax.StringFixed(2),
		Total:           o.Totals.Total.StringFixed(2),
		ShippingMethod:  o.ShippingMethod.ID,
		ShippingAddress: AddressFromEntity(o.ShippingAddress),
		BillingAddress:  AddressFromEntity(o.BillingAddress),
		CustomerNotes:   o.CustomerNotes,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
