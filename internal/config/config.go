// =============================================================================
// POSLog XML Generator - Configuration Module
// =============================================================================
//
// This module loads the two kinds of configuration the tool uses.
//
// CONFIGURATION FILES:
//   1. Main Config (config.yaml): Global application settings. Every value can
//      be overridden by a POSLOG_-prefixed environment variable.
//   2. Fixtures (*.yaml): One transaction each - store, customer, header
//      values, basket items and item transformation rules.
//
// =============================================================================

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for fixture files by the process command.
	InputDir string `yaml:"input_dir" env:"INPUT_DIR" default:"./input"`

	// OutputDir receives the generated XML documents.
	OutputDir string `yaml:"output_dir" env:"OUTPUT_DIR" default:"./output"`

	// =========================================================================
	// DOCUMENT SETTINGS
	// =========================================================================

	// FixtureFile is the fixture used by generate and compare when --fixture
	// is not given. Empty means the built-in default transaction.
	FixtureFile string `yaml:"fixture_file" env:"FIXTURE_FILE"`

	// ReferenceFile is the expected document for compare.
	ReferenceFile string `yaml:"reference_file" env:"REFERENCE_FILE" default:"sample.xml"`

	// OutputNameFormat names generated files.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {store}     - Retailer store ID
	//   {sequence}  - Transaction sequence ID
	OutputNameFormat string `yaml:"output_name_format" env:"OUTPUT_NAME_FORMAT" default:"{store}_{timestamp}_{uuid}.xml"`

	// Indent pretty-prints generated documents. Canonical form is unaffected.
	Indent bool `yaml:"indent" env:"INDENT" default:"false"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of fixtures processed at once.
	MaxConcurrency int `yaml:"max_concurrency" env:"MAX_CONCURRENCY" default:"4"`

	// ContinueOnError keeps processing other fixtures when one fails.
	ContinueOnError bool `yaml:"continue_on_error" env:"CONTINUE_ON_ERROR" default:"true"`

	// LogLevel controls logging verbosity: debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" default:"info"`
}

// LoadMainConfig loads the main configuration.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file. A missing file is
//     not an error; defaults and environment variables still apply.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be parsed or the result is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var cfg MainConfig

	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: true,
		EnvPrefix: "POSLOG",
		Files:     []string{configPath},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
			".yml":  aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if err := validateMainConfig(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &cfg, nil
}

// validateMainConfig validates the main configuration.
func validateMainConfig(cfg *MainConfig) error {
	if cfg.MaxConcurrency < 1 {
		return errors.Errorf("max_concurrency must be at least 1, got %d", cfg.MaxConcurrency)
	}

	if strings.TrimSpace(cfg.OutputNameFormat) == "" {
		return errors.New("output_name_format must not be empty")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("unknown log_level %q", cfg.LogLevel)
	}

	return nil
}

// =============================================================================
// FIXTURE STRUCTURE
// =============================================================================

// Fixture describes one transaction to generate.
type Fixture struct {
	// Name identifies the fixture in logs. Defaults to the file name.
	Name string `yaml:"name"`

	Store    StoreFixture    `yaml:"store"`
	Customer CustomerFixture `yaml:"customer"`
	Header   HeaderFixture   `yaml:"header"`

	// Items are the basket items in output order.
	Items []ItemFixture `yaml:"items"`

	// ItemsFile is an optional CSV or XLSX file whose rows are appended
	// after Items. Relative paths are resolved against the fixture file.
	ItemsFile string `yaml:"items_file,omitempty"`

	// ItemsSheet selects the worksheet of an XLSX items file.
	// Default: the first sheet.
	ItemsSheet string `yaml:"items_sheet,omitempty"`

	// CSVSettings controls parsing of a CSV items file.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// TransformationRules are applied to imported item fields.
	TransformationRules []TransformationRule `yaml:"transformation_rules"`

	// path is the file the fixture was loaded from.
	path string
}

// StoreFixture mirrors model.Store. Empty fields take the model defaults.
type StoreFixture struct {
	RetailerStoreID   string `yaml:"retailer_store_id"`
	StoreType         string `yaml:"store_type"`
	Timezone          string `yaml:"timezone"`
	WorkstationID     string `yaml:"workstation_id"`
	AlternateID       string `yaml:"alternate_id"`
	ReceiptEmail      string `yaml:"receipt_email_address"`
	LivingPlanetStore bool   `yaml:"is_living_planet_store"`
}

// CustomerFixture mirrors model.Customer.
type CustomerFixture struct {
	ID string `yaml:"customer_id"`
}

// HeaderFixture holds the operational header values.
type HeaderFixture struct {
	OperatorID            string `yaml:"operator_id"`
	TransactionSequenceID string `yaml:"transaction_sequence_id"`

	// BeginDateTime uses the layout YYYY-MM-DDTHH:MM:SS and is read as
	// wall-clock time in the store timezone.
	BeginDateTime string `yaml:"begin_date_time"`
}

// ItemFixture is one basket item. Price is kept as text so that it is parsed
// as an exact decimal.
type ItemFixture struct {
	ProductIdentifier string `yaml:"product_identifier"`
	ItemName          string `yaml:"item_name"`
	ItemQuantity      int    `yaml:"item_quantity"`
	Price             string `yaml:"price"`
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for parsing item CSV files.
type CSVSettings struct {
	// Delimiter separates fields: a single character, or one of "tab",
	// "pipe", "semicolon". Default: ","
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of header rows. Multi-row headers are joined
	// with a space. Default: 1
	HeaderRows int `yaml:"header_rows"`

	// Columns maps item fields to CSV header names.
	Columns ItemColumns `yaml:"columns"`
}

// ItemColumns names the source columns of the four item fields.
type ItemColumns struct {
	ProductIdentifier string `yaml:"product_identifier"`
	ItemName          string `yaml:"item_name"`
	ItemQuantity      string `yaml:"item_quantity"`
	Price             string `yaml:"price"`
}

// DefaultItemColumns returns the column names used when none are configured.
func DefaultItemColumns() ItemColumns {
	return ItemColumns{
		ProductIdentifier: "product_identifier",
		ItemName:          "item_name",
		ItemQuantity:      "item_quantity",
		Price:             "price",
	}
}

// =============================================================================
// TRANSFORMATION RULE STRUCTURE
// =============================================================================

// TransformationRule defines transformations applied to one item field.
type TransformationRule struct {
	// Field is one of: product_identifier, item_name.
	Field string `yaml:"field"`

	// Actions are applied in order.
	Actions []TransformationAction `yaml:"actions"`
}

// TransformationAction defines a single transformation action.
type TransformationAction struct {
	// Type is the type of transformation to apply.
	// Supported types:
	//   - "prepend_string"       : Add a string to the beginning of the value
	//   - "append_string"        : Add a string to the end of the value
	//   - "trim", "trim_left", "trim_right"
	//   - "uppercase", "lowercase"
	//   - "normalize_whitespace" : Collapse runs of whitespace to one space
	//   - "replace"              : Replace a substring with another
	//   - "regex_replace"        : Replace using a regular expression
	//   - "substring"            : Keep runes "start,end" (end exclusive)
	//   - "pad_zeros_to_length"  : Pad with leading zeros to a specific length
	//   - "ensure_length"        : Truncate or zero-pad to a specific length
	//   - "remove_leading_zeros"
	//   - "extract_digits"
	//   - "lookup"               : Replace value using a lookup table
	//   - "lookup_with_default"  : Like lookup, Value is used for misses
	//   - "if_empty_use_default" : Use Value when the field is blank
	Type string `yaml:"type"`

	// Value is the parameter for the transformation.
	Value string `yaml:"value"`

	// Find is used for "replace" and "regex_replace".
	Find string `yaml:"find,omitempty"`

	// LookupTable is used for "lookup".
	LookupTable map[string]string `yaml:"lookup_table,omitempty"`
}

// =============================================================================
// FIXTURE LOADING FUNCTIONS
// =============================================================================

// LoadFixture loads a fixture from a YAML file.
//
// PARAMETERS:
//   - filePath: The path to the fixture file.
//
// RETURNS:
//   - A pointer to the Fixture struct with defaults applied.
//   - An error if the file cannot be read, parsed or validated.
func LoadFixture(filePath string) (*Fixture, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "read fixture")
	}

	fixture, err := ParseFixture(data)
	if err != nil {
		return nil, errors.Wrapf(err, "fixture %s", filePath)
	}

	fixture.path = filePath
	if fixture.Name == "" {
		fixture.Name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}

	return fixture, nil
}

// ParseFixture decodes a fixture document and applies defaults.
func ParseFixture(data []byte) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, errors.Wrap(err, "parse fixture")
	}

	applyFixtureDefaults(&fixture)

	if err := validateFixture(&fixture); err != nil {
		return nil, err
	}

	return &fixture, nil
}

// DefaultFixture returns an empty fixture with parser defaults applied. It
// describes the built-in default transaction.
func DefaultFixture() *Fixture {
	fixture := &Fixture{Name: "default"}
	applyFixtureDefaults(fixture)
	return fixture
}

// Path returns the file the fixture was loaded from, if any.
func (f *Fixture) Path() string {
	return f.path
}

// ResolveItemsFile returns the items file path relative to the fixture file,
// or an empty string if the fixture has none.
func (f *Fixture) ResolveItemsFile() string {
	if f.ItemsFile == "" || filepath.IsAbs(f.ItemsFile) || f.path == "" {
		return f.ItemsFile
	}
	return filepath.Join(filepath.Dir(f.path), f.ItemsFile)
}

// applyFixtureDefaults fills in CSV defaults. Store, customer and header
// defaults are owned by the model package and applied when building the order.
func applyFixtureDefaults(fixture *Fixture) {
	if fixture.CSVSettings.Delimiter == "" {
		fixture.CSVSettings.Delimiter = ","
	}
	if fixture.CSVSettings.HeaderRows == 0 {
		fixture.CSVSettings.HeaderRows = 1
	}

	defaults := DefaultItemColumns()
	columns := &fixture.CSVSettings.Columns
	if columns.ProductIdentifier == "" {
		columns.ProductIdentifier = defaults.ProductIdentifier
	}
	if columns.ItemName == "" {
		columns.ItemName = defaults.ItemName
	}
	if columns.ItemQuantity == "" {
		columns.ItemQuantity = defaults.ItemQuantity
	}
	if columns.Price == "" {
		columns.Price = defaults.Price
	}
}

// validateFixture checks the parts of a fixture the loader is responsible
// for. Item values are checked by the validation package.
func validateFixture(fixture *Fixture) error {
	switch fixture.CSVSettings.Delimiter {
	case "\\t", "tab", "TAB", "pipe", "PIPE", "semicolon":
	default:
		if len([]rune(fixture.CSVSettings.Delimiter)) != 1 {
			return errors.Errorf("csv_settings.delimiter must be a single character, got %q", fixture.CSVSettings.Delimiter)
		}
	}

	if fixture.CSVSettings.HeaderRows < 1 {
		return errors.Errorf("csv_settings.header_rows must be at least 1, got %d", fixture.CSVSettings.HeaderRows)
	}

	switch strings.ToLower(filepath.Ext(fixture.ItemsFile)) {
	case "", ".csv", ".xlsx":
	default:
		return errors.Errorf("items_file %q: only .csv and .xlsx are supported", fixture.ItemsFile)
	}

	for _, rule := range fixture.TransformationRules {
		switch rule.Field {
		case "product_identifier", "item_name":
		default:
			return errors.Errorf("transformation rule field %q: must be product_identifier or item_name", rule.Field)
		}
	}

	return nil
}
