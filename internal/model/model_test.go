package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOrder(t *testing.T) {
	order := DefaultOrder()

	assert.Equal(t, "1001", order.Store.RetailerStoreID)
	assert.Equal(t, "POS001", order.Store.WorkstationID)
	assert.Equal(t, "EventNetworkStoreType", order.Store.StoreType)
	assert.Equal(t, "UTC", order.Store.Timezone)
	assert.Equal(t, "CUST123", order.Basket.Owner.ID)

	require.Len(t, order.Basket.Items, 2)
	assert.Equal(t, "SKU123456", order.Basket.Items[0].ProductIdentifier)
	assert.Equal(t, "SKU654321", order.Basket.Items[1].ProductIdentifier)
	assert.Equal(t, "115.98", order.Basket.Total().StringFixed(2))

	assert.Equal(t, "12345", order.Header.OperatorID)
	assert.Equal(t, "56789", order.Header.TransactionSequenceID)
	assert.True(t, order.Header.BeginDateTime.Equal(time.Date(2025, 3, 18, 10, 15, 30, 0, time.UTC)))
}

func TestBasketItem_ExtendedAmount(t *testing.T) {
	tests := map[string]struct {
		price    string
		quantity int
		want     string
	}{
		"single unit":    {price: "25.99", quantity: 1, want: "25.99"},
		"multiple units": {price: "0.35", quantity: 3, want: "1.05"},
		"integer price":  {price: "10", quantity: 2, want: "20.00"},
		"free item":      {price: "0", quantity: 5, want: "0.00"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			item := BasketItem{Price: decimal.RequireFromString(tt.price), ItemQuantity: tt.quantity}
			assert.Equal(t, tt.want, item.ExtendedAmount().StringFixed(2))
		})
	}
}

func TestBasket_AddPreservesOrder(t *testing.T) {
	var basket Basket
	for _, id := range []string{"C", "A", "B"} {
		basket.Add(BasketItem{ProductIdentifier: id, ItemQuantity: 1})
	}

	ids := make([]string, 0, len(basket.Items))
	for _, item := range basket.Items {
		ids = append(ids, item.ProductIdentifier)
	}
	assert.Equal(t, []string{"C", "A", "B"}, ids)
}

func TestNewOrder_CopiesItems(t *testing.T) {
	basket := DefaultBasket(DefaultCustomer())
	order := NewOrder(DefaultStore(), basket, DefaultHeader())

	basket.Items[0].ItemName = "changed"
	assert.Equal(t, "Wireless Mouse", order.Basket.Items[0].ItemName)
}

func TestStore_SetHeader(t *testing.T) {
	store := DefaultStore()
	store.SetHeader("Outlet", "2002", "Europe/London")

	assert.Equal(t, "Outlet", store.StoreType)
	assert.Equal(t, "2002", store.RetailerStoreID)
	assert.Equal(t, "Europe/London", store.Timezone)
	assert.Equal(t, "POS001", store.WorkstationID)
}

func TestStore_Location(t *testing.T) {
	loc, err := Store{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = Store{Timezone: "Not/AZone"}.Location()
	assert.Error(t, err)
}
