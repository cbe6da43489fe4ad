package pricing

import (
	"fmt"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/shopspring/decimal"
)

const DefaultShippingMethod = "standard"

// ShippingMethods resolves a client-supplied method id to a server-side priced option.
type ShippingMethods map[string]entities.ShippingMethod

func DefaultShippingMethods() ShippingMethods {
	return ShippingMethods{
		"standard": {
			ID:            "standard",
			Name:          "Standard shipping",
			Price:         decimal.RequireFromString("5.99"),
			EstimatedDays: 5,
		},
		"express": {
			ID:            "express",
			Name:          "Express shipping",
			Price:         decimal.RequireFromString("12.99"),
			EstimatedDays: 2,
		},
		"free": {
			ID:            "free",
			Name:          "Free shipping",
			Price:         decimal.RequireFromString("5.99"),
			FreeOver:      decimal.NewNullDecimal(decimal.NewFromInt(50)),
			EstimatedDays: 7,
		},
	}
}

func (m ShippingMethods) Resolve(id string) (entities.ShippingMethod, error) {
	if id == "" {
		id = DefaultShippingMethod
	}
	method, ok := m[id]
	if !ok {
		return entities.ShippingMethod{}, fmt.Errorf("%w: unknown shipping method %q", entities.ErrInvalidRequest, id)
	}
	return method, nil
}
