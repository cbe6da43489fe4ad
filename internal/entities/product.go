package entities

import "github.com/shopspring/decimal"

// Product is the authoritative catalog row used for price verification.
type Product struct {
	ID            int64
	SKU           string
	Name          string
	Price         decimal.Decimal
	IsActive      bool
	StockQuantity int
	Attributes    map[string]string
}

func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		Name:       p.Name,
		SKU:        p.SKU,
		Attributes: p.Attributes,
	}
}
