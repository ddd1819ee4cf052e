package xmlwriter

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/poslog-xml/internal/model"
)

func newGolden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func parse(t *testing.T, data []byte) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func orderWithItems(items ...model.BasketItem) model.Order {
	return model.NewOrder(model.DefaultStore(), model.Basket{Owner: model.DefaultCustomer(), Items: items}, model.DefaultHeader())
}

func item(id string, qty int, price string) model.BasketItem {
	return model.BasketItem{
		ProductIdentifier: id,
		ItemName:          "Item " + id,
		ItemQuantity:      qty,
		Price:             decimal.RequireFromString(price),
	}
}

func TestGenerate_DefaultOrderGolden(t *testing.T) {
	out, err := Generate(model.DefaultOrder())
	require.NoError(t, err)

	newGolden(t).Assert(t, "default_order", out)
}

func TestGenerate_IndentedGolden(t *testing.T) {
	out, err := GenerateWithOptions(model.DefaultOrder(), GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
	})
	require.NoError(t, err)

	newGolden(t).Assert(t, "default_order_indented", out)
}

func TestGenerate_NoDeclarationByDefault(t *testing.T) {
	out, err := Generate(model.DefaultOrder())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(out), "<POSLog>"))
	assert.NotContains(t, string(out), "<?xml")
}

func TestGenerate_RoundTripScenario(t *testing.T) {
	out, err := Generate(model.DefaultOrder())
	require.NoError(t, err)

	root := parse(t, out)
	assert.Equal(t, "1001", root.FindElement("./Transaction/TransactionHeader/RetailStoreID").Text())
	assert.Equal(t, "POS001", root.FindElement("./Transaction/TransactionHeader/WorkstationID").Text())
	assert.Len(t, root.FindElements("./Transaction/RetailTransaction/LineItem"), 2)
	assert.Equal(t, "115.98", root.FindElement("./Transaction/Payment/Tender/Amount").Text())
	assert.Equal(t, "115.98", root.FindElement("./Transaction/TransactionTrailer/Total/Amount").Text())
}

func TestGenerate_LineItemsFollowBasketOrder(t *testing.T) {
	order := orderWithItems(
		item("C", 1, "1.00"),
		item("A", 2, "2.00"),
		item("B", 3, "3.00"),
		item("A", 1, "4.00"),
	)

	out, err := Generate(order)
	require.NoError(t, err)

	lineItems := parse(t, out).FindElements("./Transaction/RetailTransaction/LineItem")
	require.Len(t, lineItems, 4)

	var ids []string
	for _, li := range lineItems {
		ids = append(ids, li.FindElement("./Sale/ItemID").Text())
	}
	assert.Equal(t, []string{"C", "A", "B", "A"}, ids)
}

func TestGenerate_EmptyBasket(t *testing.T) {
	out, err := Generate(orderWithItems())
	require.NoError(t, err)

	root := parse(t, out)
	assert.Empty(t, root.FindElements("./Transaction/RetailTransaction/LineItem"))
	assert.Equal(t, "0.00", root.FindElement("./Transaction/Payment/Tender/Amount").Text())
}

func TestGenerate_Amounts(t *testing.T) {
	tests := map[string]struct {
		items     []model.BasketItem
		unit      []string
		extended  []string
		wantTotal string
	}{
		"integer price renders two places": {
			items:     []model.BasketItem{item("X", 1, "10")},
			unit:      []string{"10.00"},
			extended:  []string{"10.00"},
			wantTotal: "10.00",
		},
		"quantity multiplies price": {
			items:     []model.BasketItem{item("X", 3, "0.35"), item("Y", 2, "1.5")},
			unit:      []string{"0.35", "1.50"},
			extended:  []string{"1.05", "3.00"},
			wantTotal: "4.05",
		},
		"sub-cent prices round half away from zero": {
			items:     []model.BasketItem{item("X", 1, "0.125"), item("Y", 1, "0.125")},
			unit:      []string{"0.13", "0.13"},
			extended:  []string{"0.13", "0.13"},
			wantTotal: "0.25",
		},
		"free item": {
			items:     []model.BasketItem{item("X", 4, "0")},
			unit:      []string{"0.00"},
			extended:  []string{"0.00"},
			wantTotal: "0.00",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := Generate(orderWithItems(tt.items...))
			require.NoError(t, err)

			root := parse(t, out)
			sales := root.FindElements("./Transaction/RetailTransaction/LineItem/Sale")
			require.Len(t, sales, len(tt.items))

			for i, sale := range sales {
				assert.Equal(t, tt.unit[i], sale.FindElement("./RegularSalesUnitPrice").Text())
				assert.Equal(t, tt.extended[i], sale.FindElement("./ExtendedAmount").Text())
			}

			tender := root.FindElement("./Transaction/Payment/Tender/Amount").Text()
			trailer := root.FindElement("./Transaction/TransactionTrailer/Total/Amount").Text()
			assert.Equal(t, tt.wantTotal, tender)
			assert.Equal(t, tender, trailer)
		})
	}
}

func TestGenerate_ElementOrder(t *testing.T) {
	out, err := Generate(model.DefaultOrder())
	require.NoError(t, err)

	root := parse(t, out)
	tagsOf := func(el *etree.Element) []string {
		var tags []string
		for _, c := range el.ChildElements() {
			tags = append(tags, c.Tag)
		}
		return tags
	}

	assert.Equal(t,
		[]string{"TransactionHeader", "RetailTransaction", "Payment", "TransactionTrailer"},
		tagsOf(root.FindElement("./Transaction")))
	assert.Equal(t,
		[]string{"RetailStoreID", "WorkstationID", "OperatorID", "TransactionSequenceID", "BusinessDayDate", "BeginDateTime"},
		tagsOf(root.FindElement("./Transaction/TransactionHeader")))
	assert.Equal(t,
		[]string{"ItemID", "Description", "Quantity", "RegularSalesUnitPrice", "ExtendedAmount"},
		tagsOf(root.FindElement("./Transaction/RetailTransaction/LineItem/Sale")))
	assert.Equal(t,
		[]string{"TenderType", "Amount"},
		tagsOf(root.FindElement("./Transaction/Payment/Tender")))
}

func TestGenerate_EscapesText(t *testing.T) {
	order := orderWithItems(model.BasketItem{
		ProductIdentifier: "SKU<1>",
		ItemName:          `Cables & "Adapters"`,
		ItemQuantity:      1,
		Price:             decimal.NewFromInt(1),
	})

	out, err := Generate(order)
	require.NoError(t, err)

	assert.Contains(t, string(out), "SKU&lt;1&gt;")
	sale := parse(t, out).FindElement("./Transaction/RetailTransaction/LineItem/Sale")
	assert.Equal(t, "SKU<1>", sale.FindElement("./ItemID").Text())
	assert.Equal(t, `Cables & "Adapters"`, sale.FindElement("./Description").Text())
}

func TestGenerate_StoreTimezone(t *testing.T) {
	order := model.DefaultOrder()
	order.Store.Timezone = "Australia/Sydney"
	order.Header.BeginDateTime = time.Date(2025, 3, 18, 20, 0, 0, 0, time.UTC)

	out, err := Generate(order)
	require.NoError(t, err)

	header := parse(t, out).FindElement("./Transaction/TransactionHeader")
	assert.Equal(t, "2025-03-19", header.FindElement("./BusinessDayDate").Text())
	assert.Equal(t, "2025-03-19T07:00:00", header.FindElement("./BeginDateTime").Text())
}

func TestGenerate_UnknownTimezone(t *testing.T) {
	order := model.DefaultOrder()
	order.Store.Timezone = "Mars/Olympus_Mons"

	_, err := Generate(order)
	assert.ErrorContains(t, err, "resolve store timezone")
}

func TestGenerateXSD(t *testing.T) {
	xsd := GenerateXSD()

	root := parse(t, xsd)
	assert.Equal(t, "schema", root.Tag)
	assert.Contains(t, string(xsd), `<xs:element name="LineItem" minOccurs="0" maxOccurs="unbounded">`)
	assert.Contains(t, string(xsd), `<xs:element name="BeginDateTime" type="xs:dateTime"/>`)
	assert.Contains(t, string(xsd), `<xs:element name="Quantity" type="xs:positiveInteger"/>`)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "10.00", FormatAmount(decimal.NewFromInt(10)))
	assert.Equal(t, "115.98", FormatAmount(decimal.RequireFromString("115.980")))
	assert.Equal(t, "0.01", FormatAmount(decimal.RequireFromString("0.005")))
}
