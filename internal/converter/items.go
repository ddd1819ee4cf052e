package converter

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/ginjaninja78/poslog-xml/internal/config"
	"github.com/ginjaninja78/poslog-xml/internal/csvparser"
	"github.com/ginjaninja78/poslog-xml/internal/model"
	"github.com/ginjaninja78/poslog-xml/internal/xlsxparser"
)

// ItemTable is a header-keyed view of an imported file, shared by the CSV
// and XLSX parsers.
type ItemTable struct {
	Headers    []string
	Rows       []map[string]string
	RowNumbers []int
}

// ImportItems reads basket items from a CSV or XLSX file.
//
// PARAMETERS:
//   - path: The items file. The extension selects the parser.
//   - fixture: Supplies CSV settings, the column mapping, the XLSX sheet and
//     the transformation rules.
//
// RETURNS:
//   - The items in file order, transformed.
//   - An error naming the file row of the first bad value.
func ImportItems(path string, fixture *config.Fixture) ([]model.BasketItem, error) {
	table, err := readItemTable(path, fixture)
	if err != nil {
		return nil, err
	}

	items, err := ItemsFromTable(table, fixture.CSVSettings.Columns)
	if err != nil {
		return nil, errors.Wrap(err, filepath.Base(path))
	}

	transformer := NewTransformer(fixture.TransformationRules)
	for i := range items {
		if err := transformer.TransformItem(&items[i]); err != nil {
			return nil, errors.Wrapf(err, "%s: row %d", filepath.Base(path), table.RowNumbers[i])
		}
	}

	return items, nil
}

func readItemTable(path string, fixture *config.Fixture) (*ItemTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		data, err := xlsxparser.Parse(path, fixture.ItemsSheet)
		if err != nil {
			return nil, errors.Wrap(err, "parse items workbook")
		}
		return &ItemTable{Headers: data.Headers, Rows: data.Rows, RowNumbers: data.RowNumbers}, nil

	case ".csv", "":
		data, err := csvparser.Parse(path, fixture.CSVSettings)
		if err != nil {
			return nil, errors.Wrap(err, "parse items CSV")
		}
		return &ItemTable{Headers: data.Headers, Rows: data.Rows, RowNumbers: data.RowNumbers}, nil

	default:
		return nil, errors.Errorf("items file %s: only .csv and .xlsx are supported", path)
	}
}

// ItemsFromTable converts table rows into basket items using the column
// mapping. Quantity must be an integer and price a decimal number; range
// checks are left to validation.
func ItemsFromTable(table *ItemTable, columns config.ItemColumns) ([]model.BasketItem, error) {
	for _, column := range []string{columns.ProductIdentifier, columns.ItemName, columns.ItemQuantity, columns.Price} {
		if !hasHeader(table.Headers, column) {
			return nil, errors.Errorf("column %q not found in headers %v", column, table.Headers)
		}
	}

	items := make([]model.BasketItem, 0, len(table.Rows))
	for i, row := range table.Rows {
		rowNumber := i + 1
		if i < len(table.RowNumbers) {
			rowNumber = table.RowNumbers[i]
		}

		quantityText := strings.TrimSpace(row[columns.ItemQuantity])
		quantity, err := strconv.Atoi(quantityText)
		if err != nil {
			return nil, errors.Errorf("row %d: item_quantity %q is not an integer", rowNumber, quantityText)
		}

		price, err := parsePrice(row[columns.Price])
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", rowNumber)
		}

		items = append(items, model.BasketItem{
			ProductIdentifier: row[columns.ProductIdentifier],
			ItemName:          row[columns.ItemName],
			ItemQuantity:      quantity,
			Price:             price,
		})
	}

	return items, nil
}

func hasHeader(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}
