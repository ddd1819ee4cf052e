package validation

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/poslog-xml/internal/model"
)

func TestValidate_DefaultOrder(t *testing.T) {
	result := Validate(model.DefaultOrder())

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.ItemsValidated)
	assert.NoError(t, result.Err())
}

func TestValidate_Rules(t *testing.T) {
	tests := map[string]struct {
		mutate    func(o *model.Order)
		wantField string
		wantRule  string
		severity  string
		lineItem  int
	}{
		"empty store id": {
			mutate:    func(o *model.Order) { o.Store.RetailerStoreID = "" },
			wantField: "retailer_store_id",
			wantRule:  "required",
			severity:  SeverityError,
		},
		"blank workstation id": {
			mutate:    func(o *model.Order) { o.Store.WorkstationID = "  " },
			wantField: "workstation_id",
			wantRule:  "required",
			severity:  SeverityError,
		},
		"unknown timezone": {
			mutate:    func(o *model.Order) { o.Store.Timezone = "Nowhere/City" },
			wantField: "timezone",
			wantRule:  "timezone",
			severity:  SeverityError,
		},
		"zero quantity": {
			mutate:    func(o *model.Order) { o.Basket.Items[1].ItemQuantity = 0 },
			wantField: "item_quantity",
			wantRule:  "min",
			severity:  SeverityError,
			lineItem:  2,
		},
		"negative price": {
			mutate:    func(o *model.Order) { o.Basket.Items[0].Price = decimal.NewFromInt(-1) },
			wantField: "price",
			wantRule:  "min",
			severity:  SeverityError,
			lineItem:  1,
		},
		"sub-cent price": {
			mutate:    func(o *model.Order) { o.Basket.Items[0].Price = decimal.RequireFromString("1.005") },
			wantField: "price",
			wantRule:  "precision",
			severity:  SeverityWarning,
			lineItem:  1,
		},
		"empty item name": {
			mutate:    func(o *model.Order) { o.Basket.Items[0].ItemName = "" },
			wantField: "item_name",
			wantRule:  "required",
			severity:  SeverityWarning,
			lineItem:  1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			order := model.DefaultOrder()
			tt.mutate(&order)

			result := Validate(order)
			require.Len(t, result.Errors, 1)

			got := result.Errors[0]
			assert.Equal(t, tt.wantField, got.Field)
			assert.Equal(t, tt.wantRule, got.Rule)
			assert.Equal(t, tt.severity, got.Severity)
			assert.Equal(t, tt.lineItem, got.LineItem)
			assert.Equal(t, tt.severity == SeverityWarning, result.IsValid)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	order := model.DefaultOrder()
	order.Store.RetailerStoreID = ""
	order.Basket.Items[0].ItemQuantity = 0
	order.Basket.Items[1].Price = decimal.NewFromInt(-5)

	result := Validate(order)

	assert.False(t, result.IsValid)
	assert.Equal(t, 3, result.ErrorCount)
	assert.Equal(t, 0, result.WarningCount)

	err := result.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed with 3 error(s)")

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "retailer_store_id", ve.Field)
}

func TestValidate_TreatWarningsAsErrors(t *testing.T) {
	order := model.DefaultOrder()
	order.Basket.Items[0].ProductIdentifier = ""

	assert.True(t, Validate(order).IsValid)

	result := NewValidatorWithOptions(ValidationOptions{TreatWarningsAsErrors: true}).Validate(order)
	assert.False(t, result.IsValid)
	assert.Equal(t, 1, result.WarningCount)

	var ve *ValidationError
	require.True(t, errors.As(result.Err(), &ve))
	assert.Equal(t, SeverityWarning, ve.Severity)
}

func TestValidate_EmptyBasket(t *testing.T) {
	order := model.DefaultOrder()
	order.Basket.Items = nil

	result := Validate(order)
	assert.True(t, result.IsValid)
	assert.Zero(t, result.ItemsValidated)
}

func TestValidationError_Error(t *testing.T) {
	storeErr := &ValidationError{Severity: SeverityError, Field: "workstation_id", Message: "workstation id must not be empty"}
	assert.Equal(t, "[ERROR] store, field 'workstation_id': workstation id must not be empty (value: '')", storeErr.Error())

	itemErr := &ValidationError{Severity: SeverityWarning, Field: "price", Value: "1.005", Message: "m", LineItem: 3}
	assert.Equal(t, "[WARNING] line item 3, field 'price': m (value: '1.005')", itemErr.Error())
}

func TestFormatErrors(t *testing.T) {
	assert.Equal(t, "No validation errors.", FormatErrors(nil))

	out := FormatErrors([]*ValidationError{
		{Severity: SeverityError, Field: "a", Message: "x"},
		{Severity: SeverityWarning, Field: "b", Message: "y", LineItem: 1},
	})
	assert.Contains(t, out, "2 finding(s)")
	assert.Contains(t, out, "1. [ERROR] store, field 'a'")
	assert.Contains(t, out, "2. [WARNING] line item 1, field 'b'")
}
