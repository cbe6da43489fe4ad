package pricing

import (
	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/shopspring/decimal"
)

const currencyPlaces = 2

type Calculator struct {
	taxRate decimal.Decimal
}

func NewCalculator(taxRate decimal.Decimal) Calculator {
	return Calculator{taxRate: taxRate}
}

// Calculate is pure: the same inputs always give the same totals.
func (c Calculator) Calculate(items []entities.LineItem, method entities.ShippingMethod) entities.Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	subtotal = subtotal.Round(currencyPlaces)

	// Round rounds half away from zero, not banker's rounding.
	tax := subtotal.Mul(c.taxRate).Round(currencyPlaces)

	shipping := method.Price.Round(currencyPlaces)
	if method.FreeOver.Valid && subtotal.GreaterThan(method.FreeOver.Decimal) {
		shipping = decimal.Zero
	}

	return entities.NewTotals(subtotal, shipping, tax)
}
