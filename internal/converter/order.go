package converter

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/poslog-xml/internal/config"
	"github.com/ginjaninja78/poslog-xml/internal/model"
	"github.com/ginjaninja78/poslog-xml/internal/xmlwriter"
)

// BuildOrder binds a fixture onto the default transaction. Empty fixture
// fields keep their defaults. A nil fixture yields model.DefaultOrder().
//
// Items listed in the fixture come first. Items are not imported from
// ItemsFile here; see Converter.BuildOrder. A fixture with neither items nor
// an items file gets the default basket.
func BuildOrder(fixture *config.Fixture) (model.Order, error) {
	if fixture == nil {
		return model.DefaultOrder(), nil
	}

	store := model.DefaultStore()
	overlay(&store.RetailerStoreID, fixture.Store.RetailerStoreID)
	overlay(&store.StoreType, fixture.Store.StoreType)
	overlay(&store.Timezone, fixture.Store.Timezone)
	overlay(&store.WorkstationID, fixture.Store.WorkstationID)
	overlay(&store.AlternateID, fixture.Store.AlternateID)
	overlay(&store.ReceiptEmail, fixture.Store.ReceiptEmail)
	store.LivingPlanetStore = fixture.Store.LivingPlanetStore

	customer := model.DefaultCustomer()
	overlay(&customer.ID, fixture.Customer.ID)

	header := model.DefaultHeader()
	overlay(&header.OperatorID, fixture.Header.OperatorID)
	overlay(&header.TransactionSequenceID, fixture.Header.TransactionSequenceID)

	// Begin times are wall-clock times in the store zone. An unknown zone
	// without an explicit begin time is left for the validator to report.
	loc, locErr := store.Location()
	switch {
	case fixture.Header.BeginDateTime != "":
		if locErr != nil {
			return model.Order{}, errors.Wrapf(locErr, "resolve store timezone %q", store.Timezone)
		}
		begin, err := time.ParseInLocation(xmlwriter.BeginDateTimeLayout, strings.TrimSpace(fixture.Header.BeginDateTime), loc)
		if err != nil {
			return model.Order{}, errors.Wrap(err, "parse begin_date_time")
		}
		header.BeginDateTime = begin
	case locErr == nil:
		header.BeginDateTime = model.DefaultBeginDateTimeIn(loc)
	}

	basket := model.Basket{Owner: customer}
	if len(fixture.Items) == 0 && fixture.ItemsFile == "" {
		basket = model.DefaultBasket(customer)
	}

	for i, f := range fixture.Items {
		item, err := itemFromFixture(f)
		if err != nil {
			return model.Order{}, errors.Wrapf(err, "item %d", i+1)
		}
		basket.Add(item)
	}

	order := model.NewOrder(store, basket, header)
	order.Store.SetHeader(store.StoreType, store.RetailerStoreID, store.Timezone)
	return order, nil
}

func itemFromFixture(f config.ItemFixture) (model.BasketItem, error) {
	price, err := parsePrice(f.Price)
	if err != nil {
		return model.BasketItem{}, err
	}

	return model.BasketItem{
		ProductIdentifier: f.ProductIdentifier,
		ItemName:          f.ItemName,
		ItemQuantity:      f.ItemQuantity,
		Price:             price,
	}, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, errors.New("price is empty")
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "price %q", s)
	}
	return price, nil
}

func overlay(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
