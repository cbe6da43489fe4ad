package repo

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/shopspring/decimal"
)

var orderColumns = []string{
	"id", "order_number", "user_id", "guest_email", "contact_email",
	"status", "payment_method", "payment_status", "payment_reference",
	"subtotal", "shipping_cost", "tax", "total", "currency",
	"shipping_address", "billing_address", "shipping_method", "customer_notes",
	"created_at", "updated_at",
}

var lineItemColumns = []string{
	"id", "order_id", "product_id", "product_snapshot", "quantity", "unit_price", "line_total",
}

var productColumns = []string{
	"id", "sku", "name", "price", "is_active", "stock_quantity", "attributes",
}

type Order struct {
	ID               int64                         `db:"id"`
	OrderNumber      string                        `db:"order_number"`
	UserID           sql.NullString                `db:"user_id"`
	GuestEmail       sql.NullString                `db:"guest_email"`
	ContactEmail     sql.NullString                `db:"contact_email"`
	Status           string                        `db:"status"`
	PaymentMethod    string                        `db:"payment_method"`
	PaymentStatus    string                        `db:"payment_status"`
	PaymentReference sql.NullString                `db:"payment_reference"`
	Subtotal         decimal.Decimal               `db:"subtotal"`
	ShippingCost     decimal.Decimal               `db:"shipping_cost"`
	Tax              decimal.Decimal               `db:"tax"`
	Total            decimal.Decimal               `db:"total"`
	Currency         string                        `db:"currency"`
	ShippingAddress  JSON[entities.Address]        `db:"shipping_address"`
	BillingAddress   JSON[entities.Address]        `db:"billing_address"`
	ShippingMethod   JSON[entities.ShippingMethod] `db:"shipping_method"`
	CustomerNotes    sql.NullString                `db:"customer_notes"`
	CreatedAt        time.Time                     `db:"created_at"`
	UpdatedAt        time.Time                     `db:"updated_at"`
}

type LineItem struct {
	ID        int64                          `db:"id"`
	OrderID   int64                          `db:"order_id"`
	ProductID int64                          `db:"product_id"`
	Snapshot  JSON[entities.ProductSnapshot] `db:"product_snapshot"`
	Quantity  int                            `db:"quantity"`
	UnitPrice decimal.Decimal                `db:"unit_price"`
	LineTotal decimal.Decimal                `db:"line_total"`
}

type Product struct {
	ID            int64                   `db:"id"`
	SKU           string                  `db:"sku"`
	Name          string                  `db:"name"`
	Price         decimal.Decimal         `db:"price"`
	IsActive      bool                    `db:"is_active"`
	StockQuantity int                     `db:"stock_quantity"`
	Attributes    JSON[map[string]string] `db:"attributes"`
}

// JSON stores V in a JSONB column.
type JSON[V any] struct {
	V V
}

func (j JSON[V]) Value() (driver.Value, error) {
	return json.Marshal(j.V)
}

func (j *JSON[V]) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, &j.V)
	case string:
		return json.Unmarshal([]byte(v), &j.V)
	}
	return fmt.Errorf("cannot scan %T into JSON", src)
}

func LineItemToEntity(i LineItem) entities.LineItem {
	return entities.LineItem{
		ID:        i.ID,
		ProductID: i.ProductID,
		Snapshot:  i.Snapshot.V,
		Quantity:  i.Quantity,
		UnitPrice: i.UnitPrice,
		LineTotal: i.LineTotal,
	}
}

func ProductToEntity(p Product) entities.Product {
	return entities.Product{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Price:         p.Price,
		IsActive:      p.IsActive,
		StockQuantity: p.StockQuantity,
		Attributes:    p.Attributes.V,
	}
}

// OrderToEntity rebuilds the domain order. Totals come from the stored columns and are
// never recomputed; use Totals.Valid to detect corruption.
func OrderToEntity(o Order, items []LineItem) entities.Order {
	var customer entities.Customer
	if o.UserID.Valid {
		customer = entities.Authenticated{UserID: o.UserID.String, Email: nullStringToString(o.ContactEmail)}
	} else {
		customer = entities.Guest{Email: nullStringToString(o.GuestEmail)}
	}

	order := entities.Order{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		Customer:         customer,
		Status:           entities.OrderStatus(o.Status),
		PaymentMethod:    entities.PaymentMethod(o.PaymentMethod),
		PaymentStatus:    entities.PaymentStatus(o.PaymentStatus),
		PaymentReference: nullStringToString(o.PaymentReference),
		Totals: entities.Totals{
			Subtotal:     o.Subtotal,
			ShippingCost: o.ShippingCost,
			Tax:          o.Tax,
			Total:        o.Total,
		},
		Currency:        o.Currency,
		ShippingAddress: o.ShippingAddress.V,
		BillingAddress:  o.BillingAddress.V,
		ShippingMethod:  o.ShippingMethod.V,
		CustomerNotes:   nullStringToString(o.CustomerNotes),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}

	if len(items) > 0 {
		order.Items = make([]entities.LineItem, 0, len(items))
		for _, it := range items {
			order.Items = append(order.Items, LineItemToEntity(it))
		}
	}

	return order
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
