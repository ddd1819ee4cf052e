package converter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/poslog-xml/internal/config"
	"github.com/ginjaninja78/poslog-xml/internal/model"
	"github.com/ginjaninja78/poslog-xml/internal/xmlwriter"
)

func TestBuildOrder_NilFixture(t *testing.T) {
	order, err := BuildOrder(nil)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultOrder(), order)
}

func TestBuildOrder_EmptyFixtureIsDefault(t *testing.T) {
	fixture, err := config.ParseFixture([]byte("name: empty\n"))
	require.NoError(t, err)

	order, err := BuildOrder(fixture)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultOrder(), order)
}

func TestBuildOrder_DefaultBeginTimeInStoreZone(t *testing.T) {
	for _, zone := range []string{"America/Los_Angeles", "Pacific/Kiritimati"} {
		t.Run(zone, func(t *testing.T) {
			fixture, err := config.ParseFixture([]byte("store:\n  timezone: " + zone + "\n"))
			require.NoError(t, err)

			order, err := BuildOrder(fixture)
			require.NoError(t, err)

			doc, err := xmlwriter.Generate(order)
			require.NoError(t, err)

			out := string(doc)
			assert.Contains(t, out, "<BeginDateTime>2025-03-18T10:15:30</BeginDateTime>")
			assert.Contains(t, out, "<BusinessDayDate>2025-03-18</BusinessDayDate>")
		})
	}
}

func TestBuildOrder_Overrides(t *testing.T) {
	fixture, err := config.ParseFixture([]byte(`
store:
  retailer_store_id: "3003"
  timezone: America/New_York
  is_living_planet_store: true
customer:
  customer_id: C-9
header:
  transaction_sequence_id: "42"
  begin_date_time: "2025-01-02T23:30:00"
items:
  - product_identifier: P1
    item_name: Pen
    item_quantity: 4
    price: "0.99"
`))
	require.NoError(t, err)

	order, err := BuildOrder(fixture)
	require.NoError(t, err)

	assert.Equal(t, "3003", order.Store.RetailerStoreID)
	assert.Equal(t, model.DefaultWorkstationID, order.Store.WorkstationID)
	assert.True(t, order.Store.LivingPlanetStore)
	assert.Equal(t, "C-9", order.Basket.Owner.ID)
	assert.Equal(t, model.DefaultOperatorID, order.Header.OperatorID)
	assert.Equal(t, "42", order.Header.TransactionSequenceID)

	nyc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	assert.True(t, order.Header.BeginDateTime.Equal(time.Date(2025, 1, 2, 23, 30, 0, 0, nyc)))

	require.Len(t, order.Basket.Items, 1)
	assert.Equal(t, "Pen", order.Basket.Items[0].ItemName)
	assert.Equal(t, "3.96", order.Basket.Total().StringFixed(2))
}

func TestBuildOrder_Errors(t *testing.T) {
	tests := map[string]struct {
		yaml    string
		wantErr string
	}{
		"bad begin time": {
			yaml:    "header:\n  begin_date_time: yesterday\n",
			wantErr: "parse begin_date_time",
		},
		"bad timezone with begin time": {
			yaml:    "store:\n  timezone: Nowhere/City\nheader:\n  begin_date_time: \"2025-01-01T00:00:00\"\n",
			wantErr: "resolve store timezone",
		},
		"bad price": {
			yaml:    "items:\n  - product_identifier: A\n    item_quantity: 1\n    price: ten\n",
			wantErr: "item 1: price \"ten\"",
		},
		"missing price": {
			yaml:    "items:\n  - product_identifier: A\n    item_quantity: 1\n",
			wantErr: "item 1: price is empty",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			fixture, err := config.ParseFixture([]byte(tt.yaml))
			require.NoError(t, err)

			_, err = BuildOrder(fixture)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestBuildOrder_DefaultFixtureFile(t *testing.T) {
	fixture, err := config.LoadFixture("testdata/fixtures/default.yaml")
	require.NoError(t, err)

	order, err := BuildOrder(fixture)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultOrder(), order)
}
