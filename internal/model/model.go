// =============================================================================
// POSLog XML Generator - Transaction Model
// =============================================================================
//
// This package contains the in-memory representation of a single retail
// transaction. The types are plain value structs shared by:
//   - config      (fixtures are decoded into these types)
//   - validation  (checks run against an Order)
//   - xmlwriter   (an Order is rendered into a POSLog document)
//
// OBJECT GRAPH:
//   Order
//   ├── Store            (retailer id, workstation id, timezone, ...)
//   ├── Basket
//   │   ├── Owner        (Customer)
//   │   └── Items        ([]BasketItem, insertion order is output order)
//   └── Header           (operator, sequence number, begin time)
//
// =============================================================================

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STORE
// =============================================================================

// Store identifies the retail location a transaction belongs to.
type Store struct {
	// RetailerStoreID is rendered verbatim as TransactionHeader/RetailStoreID.
	RetailerStoreID string

	// StoreType is a classification tag such as "EventNetworkStoreType".
	StoreType string

	// Timezone is an IANA zone name. BeginDateTime and BusinessDayDate are
	// rendered in this zone.
	Timezone string

	// WorkstationID is rendered verbatim as TransactionHeader/WorkstationID.
	WorkstationID string

	// AlternateID is an auxiliary store identifier. Not serialized.
	AlternateID string

	// ReceiptEmail is the address receipts are sent from. Not serialized.
	ReceiptEmail string

	// LivingPlanetStore flags sustainability-program stores. Not serialized.
	LivingPlanetStore bool
}

// SetHeader overwrites the three store fields that are settled just before
// serialization.
func (s *Store) SetHeader(storeType, retailerStoreID, timezone string) {
	s.StoreType = storeType
	s.RetailerStoreID = retailerStoreID
	s.Timezone = timezone
}

// Location resolves the store timezone. An empty zone means UTC.
func (s Store) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.Timezone)
}

// =============================================================================
// CUSTOMER
// =============================================================================

// Customer owns a basket. Only the identifier is tracked.
type Customer struct {
	ID string
}

// =============================================================================
// BASKET
// =============================================================================

// BasketItem is one purchased product entry.
type BasketItem struct {
	// ProductIdentifier is rendered as Sale/ItemID.
	ProductIdentifier string

	// ItemName is rendered as Sale/Description.
	ItemName string

	// ItemQuantity is expected to be >= 1.
	ItemQuantity int

	// Price is the unit price, expected to be >= 0.
	Price decimal.Decimal
}

// ExtendedAmount returns Price * ItemQuantity without rounding.
func (i BasketItem) ExtendedAmount() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.ItemQuantity)))
}

// Basket is an ordered collection of items owned by a customer.
type Basket struct {
	Owner Customer
	Items []BasketItem
}

// Add appends an item, preserving insertion order.
func (b *Basket) Add(item BasketItem) {
	b.Items = append(b.Items, item)
}

// Total sums the unrounded extended amounts of all items.
func (b Basket) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.ExtendedAmount())
	}
	return total
}

// =============================================================================
// ORDER
// =============================================================================

// TransactionHeader carries the operational values of the POSLog header that
// do not come from the store.
type TransactionHeader struct {
	OperatorID            string
	TransactionSequenceID string

	// BeginDateTime is an instant. It is rendered in the store timezone.
	BeginDateTime time.Time
}

// Order pairs a basket with the store it was sold in.
type Order struct {
	Store  Store
	Basket Basket
	Header TransactionHeader
}
