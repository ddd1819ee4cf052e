package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMainConfig_Defaults(t *testing.T) {
	cfg, err := LoadMainConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "./input", cfg.InputDir)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "sample.xml", cfg.ReferenceFile)
	assert.Equal(t, "{store}_{timestamp}_{uuid}.xml", cfg.OutputNameFormat)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.True(t, cfg.ContinueOnError)
	assert.False(t, cfg.Indent)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMainConfig_FileAndEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
input_dir: ./fixtures
output_dir: ./generated
max_concurrency: 2
continue_on_error: false
indent: true
`)
	t.Setenv("POSLOG_OUTPUT_DIR", "/tmp/poslog")

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "./fixtures", cfg.InputDir)
	assert.Equal(t, "/tmp/poslog", cfg.OutputDir)
	assert.Equal(t, 2, cfg.MaxConcurrency)
	assert.False(t, cfg.ContinueOnError)
	assert.True(t, cfg.Indent)
}

func TestLoadMainConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"zero concurrency": "max_concurrency: 0\n",
		"bad log level":    "log_level: loud\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", content)

			_, err := LoadMainConfig(path)
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestParseFixture(t *testing.T) {
	fixture, err := ParseFixture([]byte(`
name: weekday-sale
store:
  retailer_store_id: "2002"
  workstation_id: POS009
  timezone: Europe/London
customer:
  customer_id: CUST999
header:
  operator_id: "777"
  transaction_sequence_id: "1"
  begin_date_time: "2025-06-01T09:00:00"
items:
  - product_identifier: SKU1
    item_name: Cable
    item_quantity: 2
    price: 10
  - product_identifier: SKU2
    item_name: Plug
    item_quantity: 1
    price: "3.50"
`))
	require.NoError(t, err)

	assert.Equal(t, "weekday-sale", fixture.Name)
	assert.Equal(t, "2002", fixture.Store.RetailerStoreID)
	assert.Equal(t, "POS009", fixture.Store.WorkstationID)
	assert.Equal(t, "CUST999", fixture.Customer.ID)
	assert.Equal(t, "2025-06-01T09:00:00", fixture.Header.BeginDateTime)

	require.Len(t, fixture.Items, 2)
	assert.Equal(t, ItemFixture{ProductIdentifier: "SKU1", ItemName: "Cable", ItemQuantity: 2, Price: "10"}, fixture.Items[0])
	assert.Equal(t, "3.50", fixture.Items[1].Price)

	assert.Equal(t, ",", fixture.CSVSettings.Delimiter)
	assert.Equal(t, 1, fixture.CSVSettings.HeaderRows)
	assert.Equal(t, DefaultItemColumns(), fixture.CSVSettings.Columns)
}

func TestParseFixture_Invalid(t *testing.T) {
	tests := map[string]struct {
		content string
		wantErr string
	}{
		"bad yaml": {
			content: "store: [",
			wantErr: "parse fixture",
		},
		"multi-character delimiter": {
			content: "csv_settings:\n  delimiter: ';;'\n",
			wantErr: "delimiter",
		},
		"unsupported items file": {
			content: "items_file: items.json\n",
			wantErr: "only .csv and .xlsx",
		},
		"unknown transformation field": {
			content: "transformation_rules:\n  - field: price\n    actions: [{type: trim}]\n",
			wantErr: "must be product_identifier or item_name",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFixture([]byte(tt.content))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadFixture(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "store-1001.yaml", "items_file: items.csv\n")

	fixture, err := LoadFixture(path)
	require.NoError(t, err)

	assert.Equal(t, "store-1001", fixture.Name)
	assert.Equal(t, filepath.Join(dir, "items.csv"), fixture.ResolveItemsFile())
}

func TestLoadFixture_Missing(t *testing.T) {
	_, err := LoadFixture(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFixture_ResolveItemsFile(t *testing.T) {
	assert.Equal(t, "", (&Fixture{}).ResolveItemsFile())
	assert.Equal(t, "/abs/items.xlsx", (&Fixture{ItemsFile: "/abs/items.xlsx", path: "/fixtures/f.yaml"}).ResolveItemsFile())
	assert.Equal(t, "items.csv", (&Fixture{ItemsFile: "items.csv"}).ResolveItemsFile())
}

func TestParseFixture_NamedDelimiters(t *testing.T) {
	for _, d := range []string{"tab", "pipe", "semicolon", "|"} {
		_, err := ParseFixture([]byte("csv_settings:\n  delimiter: '" + d + "'\n"))
		assert.NoError(t, err, d)
	}
}

func TestDefaultFixture(t *testing.T) {
	f := DefaultFixture()

	assert.Equal(t, "default", f.Name)
	assert.Equal(t, ",", f.CSVSettings.Delimiter)
	assert.Equal(t, 1, f.CSVSettings.HeaderRows)
	assert.Equal(t, DefaultItemColumns(), f.CSVSettings.Columns)
	assert.Empty(t, f.Path())
}
