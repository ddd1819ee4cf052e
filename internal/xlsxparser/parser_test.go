package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "items.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"product_identifier", "item_name", "item_quantity", "price"},
		{"SKU123456", "Wireless Mouse", 1, "25.99"},
		{},
		{"SKU654321", "Mechanical Keyboard", 1, "89.99"},
	})

	data, err := Parse(path, "")
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", data.SheetName)
	assert.Equal(t, path, data.SourceFile)
	assert.Equal(t, []string{"product_identifier", "item_name", "item_quantity", "price"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "SKU123456", data.Rows[0]["product_identifier"])
	assert.Equal(t, "1", data.Rows[0]["item_quantity"])
	assert.Equal(t, "Mechanical Keyboard", data.Rows[1]["item_name"])
	assert.Equal(t, []int{2, 4}, data.RowNumbers)
}

func TestParse_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Items", [][]any{
		{"sku", "", "qty"},
		{"A", "ignored", 3},
	})

	data, err := Parse(path, "Items")
	require.NoError(t, err)

	assert.Equal(t, []string{"sku", "Column_2", "qty"}, data.Headers)
	assert.Equal(t, map[string]string{"sku": "A", "Column_2": "ignored", "qty": "3"}, data.Rows[0])
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	assert.ErrorContains(t, err, "open workbook")

	path := writeWorkbook(t, "Sheet1", [][]any{{"a"}})
	_, err = Parse(path, "Nope")
	assert.ErrorContains(t, err, "read sheet")
}

func TestParseRows_MissingHeader(t *testing.T) {
	_, err := parseRows(nil)
	assert.ErrorContains(t, err, "missing header row")

	_, err = parseRows([][]string{{"", " "}})
	assert.ErrorContains(t, err, "missing header row")
}
