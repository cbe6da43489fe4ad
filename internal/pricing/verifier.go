package pricing

import (
	"context"
	"fmt"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/shopspring/decimal"
)

type Catalog interface {
	ProductsByIDs(ctx context.Context, ids []int64) ([]entities.Product, error)
}

// RequestedItem is a cart line as submitted by the client.
// ClientUnitPrice is carried only so callers can log tampering; it never affects pricing.
type RequestedItem struct {
	ProductID       int64
	Quantity        int
	ClientUnitPrice decimal.Decimal
}

type Verifier struct {
	catalog Catalog
}

func NewVerifier(catalog Catalog) *Verifier {
	return &Verifier{catalog: catalog}
}

// Verify re-prices every item from the catalog in a single lookup.
func (v *Verifier) Verify(ctx context.Context, items []RequestedItem) ([]entities.LineItem, error) {
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}

	products, err := v.catalog.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	byID := make(map[int64]entities.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lineItems := make([]entities.LineItem, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d", entities.ErrProductNotFound, it.ProductID)
		}
		if !p.IsActive {
			return nil, fmt.Errorf("%w: product %d", entities.ErrProductUnavailable, it.ProductID)
		}
		lineItems = append(lineItems, entities.NewLineItem(p.ID, p.Snapshot(), it.Quantity, p.Price))
	}

	return lineItems, nil
}
