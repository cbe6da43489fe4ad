package pricing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/SergeyBogomolovv/checkout-service/internal/pricing"
	mocks "github.com/SergeyBogomolovv/checkout-service/internal/pricing/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestVerifier_Verify(t *testing.T) {
	wineA := entities.Product{ID: 1, Name: "Wine A", SKU: "W-A", Price: decimal.RequireFromString("25.00"), IsActive: true, StockQuantity: 100}
	wineB := entities.Product{ID: 2, Name: "Wine B", SKU: "W-B", Price: decimal.RequireFromString("30.00"), IsActive: true}
	inactive := entities.Product{ID: 99, Name: "Inactive", Price: decimal.NewFromInt(50), IsActive: false}
	outOfStock := entities.Product{ID: 3, Name: "Rare", Price: decimal.NewFromInt(40), IsActive: true, StockQuantity: 0}

	testCases := []struct {
		name         string
		items        []pricing.RequestedItem
		mockBehavior func(c *mocks.MockCatalog)
		wantErr      error
		want         []entities.LineItem
	}{
		{
			name: "catalog price wins over tampered client price",
			items: []pricing.RequestedItem{
				{ProductID: 1, Quantity: 2, ClientUnitPrice: decimal.NewFromInt(1)},
				{ProductID: 2, Quantity: 1, ClientUnitPrice: decimal.NewFromInt(30)},
			},
			mockBehavior: func(c *mocks.MockCatalog) {
				c.EXPECT().ProductsByIDs(mock.Anything, []int64{1, 2}).
					Return([]entities.Product{wineA, wineB}, nil).Once()
			},
			want: []entities.LineItem{
				entities.NewLineItem(1, wineA.Snapshot(), 2, wineA.Price),
				entities.NewLineItem(2, wineB.Snapshot(), 1, wineB.Price),
			},
		},
		{
			name: "duplicate ids are looked up once",
			items: []pricing.RequestedItem{
				{ProductID: 1, Quantity: 1},
				{ProductID: 1, Quantity: 3},
			},
			mockBehavior: func(c *mocks.MockCatalog) {
				c.EXPECT().ProductsByIDs(mock.Anything, []int64{1}).
					Return([]entities.Product{wineA}, nil).Once()
			},
			want: []entities.LineItem{
				entities.NewLineItem(1, wineA.Snapshot(), 1, wineA.Price),
				entities.NewLineItem(1, wineA.Snapshot(), 3, wineA.Price),
			},
		},
		{
			name:  "insufficient stock is not enforced here",
			items: []pricing.RequestedItem{{ProductID: 3, Quantity: 5}},
			mockBehavior: func(c *mocks.MockCatalog) {
				c.EXPECT().ProductsByIDs(mock.Anything, []int64{3}).
					Return([]entities.Product{outOfStock}, nil).Once()
			},
			want: []entities.LineItem{entities.NewLineItem(3, outOfStock.Snapshot(), 5, outOfStock.Price)},
		},
		{
			name:  "unknown product",
			items: []pricing.RequestedItem{{ProductID: 9999, Quantity: 1, ClientUnitPrice: decimal.NewFromInt(1)}},
			mockBehavior: func(c *mocks.MockCatalog) {
				c.EXPECT().ProductsByIDs(mock.Anything, []int64{9999}).Return(nil, nil).Once()
			},
			wantErr: entities.ErrProductNotFound,
		},
		{
			name:  "inactive product",
			items: []pricing.RequestedItem{{ProductID: 99, Quantity: 1}},
			mockBehavior: func(c *mocks.MockCatalog) {
				c.EXPECT().ProductsByIDs(mock.Anything, []int64{99}).
					Return([]entities.Product{inactive}, nil).Once()
			},
			wantErr: entities.ErrProductUnavailable,
		},
		{
			name:  "catalog failure",
			items: []pricing.RequestedItem{{ProductID: 1, Quantity: 1}},
			mockBehavior: func(c *mocks.MockCatalog) {
				c.EXPECT().ProductsByIDs(mock.Anything, []int64{1}).
					Return(nil, errDB).Once()
			},
			wantErr: errDB,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			catalog := mocks.NewMockCatalog(t)
			tc.mockBehavior(catalog)

			got, err := pricing.NewVerifier(catalog).Verify(context.Background(), tc.items)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

var errDB = errors.New("db error")
