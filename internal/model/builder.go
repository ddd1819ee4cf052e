package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Default fixture values.
const (
	DefaultRetailerStoreID       = "1001"
	DefaultStoreType             = "EventNetworkStoreType"
	DefaultTimezone              = "UTC"
	DefaultWorkstationID         = "POS001"
	DefaultAlternateID           = "ALT123"
	DefaultReceiptEmail          = "test@example.com"
	DefaultCustomerID            = "CUST123"
	DefaultOperatorID            = "12345"
	DefaultTransactionSequenceID = "56789"
)

// DefaultBeginDateTime is the begin time of the default transaction.
var DefaultBeginDateTime = time.Date(2025, time.March, 18, 10, 15, 30, 0, time.UTC)

// DefaultBeginDateTimeIn returns the wall-clock time of DefaultBeginDateTime
// in loc, so that every store zone renders 2025-03-18T10:15:30.
func DefaultBeginDateTimeIn(loc *time.Location) time.Time {
	d := DefaultBeginDateTime
	return time.Date(d.Year(), d.Month(), d.Day(), d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), loc)
}

// DefaultStore returns the store used when no fixture overrides it.
func DefaultStore() Store {
	return Store{
		RetailerStoreID: DefaultRetailerStoreID,
		StoreType:       DefaultStoreType,
		Timezone:        DefaultTimezone,
		WorkstationID:   DefaultWorkstationID,
		AlternateID:     DefaultAlternateID,
		ReceiptEmail:    DefaultReceiptEmail,
	}
}

// DefaultCustomer returns the customer owning the default basket.
func DefaultCustomer() Customer {
	return Customer{ID: DefaultCustomerID}
}

// DefaultBasket returns the two-item basket of the default transaction.
func DefaultBasket(owner Customer) Basket {
	return Basket{
		Owner: owner,
		Items: []BasketItem{
			{
				ProductIdentifier: "SKU123456",
				ItemName:          "Wireless Mouse",
				ItemQuantity:      1,
				Price:             decimal.RequireFromString("25.99"),
			},
			{
				ProductIdentifier: "SKU654321",
				ItemName:          "Mechanical Keyboard",
				ItemQuantity:      1,
				Price:             decimal.RequireFromString("89.99"),
			},
		},
	}
}

// DefaultHeader returns the operational header values of the default
// transaction.
func DefaultHeader() TransactionHeader {
	return TransactionHeader{
		OperatorID:            DefaultOperatorID,
		TransactionSequenceID: DefaultTransactionSequenceID,
		BeginDateTime:         DefaultBeginDateTime,
	}
}

// DefaultOrder builds the complete default transaction: store 1001 on
// workstation POS001 selling a wireless mouse and a mechanical keyboard.
func DefaultOrder() Order {
	store := DefaultStore()
	basket := DefaultBasket(DefaultCustomer())
	order := NewOrder(store, basket, DefaultHeader())
	order.Store.SetHeader(DefaultStoreType, DefaultRetailerStoreID, DefaultTimezone)
	return order
}

// NewOrder binds externally supplied values into an Order. The items slice
// is copied so later changes to the caller's basket do not leak in.
func NewOrder(store Store, basket Basket, header TransactionHeader) Order {
	items := make([]BasketItem, len(basket.Items))
	copy(items, basket.Items)
	basket.Items = items

	return Order{
		Store:  store,
		Basket: basket,
		Header: header,
	}
}
