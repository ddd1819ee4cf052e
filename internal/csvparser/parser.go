// =============================================================================
// POSLog XML Generator - CSV Item Parser
// =============================================================================
//
// This module reads basket items exported as CSV. Each data row becomes a map
// of header -> value; the converter maps the configured columns onto
// BasketItem fields.
//
// FEATURES:
//   - Configurable delimiter (comma, pipe, tab, semicolon, ...)
//   - Multi-row headers, merged column by column
//   - Empty rows are skipped; row order is preserved
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"

	"github.com/ginjaninja78/poslog-xml/internal/config"
)

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents the parsed CSV file.
type CSVData struct {
	// Headers contains the column headers. Multi-row headers are merged.
	Headers []string

	// Rows contains the data rows as maps of header -> value, in file order.
	Rows []map[string]string

	// RowNumbers holds the 1-indexed file line of each entry in Rows.
	RowNumbers []int

	// SourceFile is the path to the source CSV file.
	SourceFile string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed data.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings from the fixture.
//
// RETURNS:
//   - A pointer to the CSVData struct containing the parsed data.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings config.CSVSettings) (*CSVData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "open CSV")
	}
	defer file.Close()

	data, err := ParseReader(bufio.NewReader(file), settings)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", filePath)
	}

	data.SourceFile = filePath
	return data, nil
}

// ParseReader parses CSV content from any reader.
//
// PARSING PROCESS:
//  1. Configure the CSV reader with the delimiter
//  2. Read and merge header rows
//  3. Convert each following non-empty row to a map of header -> value
func ParseReader(r io.Reader, settings config.CSVSettings) (*CSVData, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	allRows, lines, err := readRecords(csvReader)
	if err != nil {
		return nil, errors.Wrap(err, "read CSV")
	}

	if len(allRows) == 0 {
		return nil, errors.New("CSV file is empty")
	}

	headers, err := extractHeaders(allRows, settings)
	if err != nil {
		return nil, errors.Wrap(err, "extract headers")
	}

	rows, rowNumbers := extractDataRows(allRows[settings.HeaderRows:], lines[settings.HeaderRows:], headers)

	return &CSVData{
		Headers:    headers,
		Rows:       rows,
		RowNumbers: rowNumbers,
	}, nil
}

// readRecords reads every record together with the file line it starts on.
// Blank lines produce no record, and a quoted field may span several lines.
func readRecords(reader *csv.Reader) ([][]string, []int, error) {
	var (
		records [][]string
		lines   []int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return records, lines, nil
		}
		if err != nil {
			return nil, nil, err
		}

		line, _ := reader.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "pipe", "PIPE":
		reader.Comma = '|'
	case "semicolon":
		reader.Comma = ';'
	default:
		if d := []rune(settings.Delimiter); len(d) > 0 {
			reader.Comma = d[0]
		} else {
			reader.Comma = ','
		}
	}

	// Item exports are not always rectangular.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// extractHeaders extracts and merges headers from the CSV.
//
// MULTI-LINE HEADER HANDLING:
// Non-empty values of each column are joined with a space.
//
//	Row 1: "item", "",         "unit"
//	Row 2: "id",   "quantity", "price"
//	Result: "item id", "quantity", "unit price"
func extractHeaders(allRows [][]string, settings config.CSVSettings) ([]string, error) {
	if settings.HeaderRows <= 0 {
		return nil, errors.New("header_rows must be at least 1")
	}

	if len(allRows) < settings.HeaderRows {
		return nil, errors.New("file has fewer rows than header_rows setting")
	}

	if settings.HeaderRows == 1 {
		return cleanHeaders(allRows[0]), nil
	}

	maxCols := 0
	for i := 0; i < settings.HeaderRows; i++ {
		if len(allRows[i]) > maxCols {
			maxCols = len(allRows[i])
		}
	}

	headers := make([]string, maxCols)
	for col := 0; col < maxCols; col++ {
		var parts []string

		for row := 0; row < settings.HeaderRows; row++ {
			if col < len(allRows[row]) {
				if value := strings.TrimSpace(allRows[row][col]); value != "" {
					parts = append(parts, value)
				}
			}
		}

		headers[col] = strings.Join(parts, " ")
	}

	return cleanHeaders(headers), nil
}

// cleanHeaders trims headers and names empty ones Column_N.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// extractDataRows converts the data records to maps, skipping empty rows.
// It also returns the file line of every kept row.
func extractDataRows(records [][]string, lines []int, headers []string) ([]map[string]string, []int) {
	rows := make([]map[string]string, 0, len(records))
	rowNumbers := make([]int, 0, len(records))

	for i, row := range records {
		if isRowEmpty(row) {
			continue
		}

		rowMap := make(map[string]string, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				rowMap[header] = strings.TrimSpace(row[colIndex])
			} else {
				rowMap[header] = ""
			}
		}

		rows = append(rows, rowMap)
		rowNumbers = append(rowNumbers, lines[i])
	}

	return rows, rowNumbers
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
