// =============================================================================
// POSLog XML Generator - XLSX Item Parser
// =============================================================================
//
// This module reads basket items kept in a spreadsheet. The first row of the
// sheet holds the column headers; every following non-empty row is one item.
//
// SHEET LAYOUT (default column names):
//
//   | product_identifier | item_name           | item_quantity | price |
//   |--------------------|---------------------|---------------|-------|
//   | SKU123456          | Wireless Mouse      | 1             | 25.99 |
//   | SKU654321          | Mechanical Keyboard | 1             | 89.99 |
//
// Column names are mapped onto item fields by the fixture, the same way as
// for CSV files.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// SHEET DATA STRUCTURE
// =============================================================================

// SheetData represents the parsed item sheet.
type SheetData struct {
	// SheetName is the worksheet that was read.
	SheetName string

	// Headers are the cleaned values of the first row.
	Headers []string

	// Rows contains the data rows as maps of header -> value, in sheet order.
	Rows []map[string]string

	// RowNumbers holds the 1-indexed sheet row of each entry in Rows.
	RowNumbers []int

	// SourceFile is the path to the workbook.
	SourceFile string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the item sheet of a workbook.
//
// PARAMETERS:
//   - filePath: The path to the XLSX file.
//   - sheetName: The worksheet to read. Empty selects the first sheet.
//
// RETURNS:
//   - A pointer to the SheetData struct.
//   - An error if the workbook or sheet cannot be read.
func Parse(filePath, sheetName string) (*SheetData, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, errors.Errorf("workbook %s has no sheets", filePath)
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheetName)
	}

	data, err := parseRows(rows)
	if err != nil {
		return nil, errors.Wrapf(err, "sheet %q", sheetName)
	}

	data.SheetName = sheetName
	data.SourceFile = filePath
	return data, nil
}

// parseRows turns raw sheet rows into header-keyed maps.
func parseRows(rows [][]string) (*SheetData, error) {
	if len(rows) == 0 || isRowEmpty(rows[0]) {
		return nil, errors.New("missing header row")
	}

	data := &SheetData{
		Headers: cleanHeaders(rows[0]),
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]

		// GetRows drops trailing empty cells, so short rows are common.
		if len(row) == 0 || isRowEmpty(row) {
			continue
		}

		getCell := func(index int) string {
			if index < len(row) {
				return strings.TrimSpace(row[index])
			}
			return ""
		}

		rowMap := make(map[string]string, len(data.Headers))
		for col, header := range data.Headers {
			rowMap[header] = getCell(col)
		}

		data.Rows = append(data.Rows, rowMap)
		data.RowNumbers = append(data.RowNumbers, i+1)
	}

	return data, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cleanHeaders trims header cells and names empty ones Column_N.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}
