// =============================================================================
// POSLog XML Generator - Converter Module
// =============================================================================
//
// This module contains the document pipeline. It turns one fixture (or the
// built-in default transaction) into a POSLog document on disk.
//
// CONVERSION PIPELINE:
//   1. Bind the fixture onto the default order
//   2. Import basket items from the fixture's CSV or XLSX file
//   3. Validate the order
//   4. Generate the XML document
//   5. Write the output file
//   6. Compare against a reference document, if one is configured
//
// CONCURRENCY:
//   A Converter handles a single fixture and shares no state, so the batch
//   command runs one Converter per fixture in parallel.
//
// =============================================================================

package converter

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/ginjaninja78/poslog-xml/internal/canonical"
	"github.com/ginjaninja78/poslog-xml/internal/config"
	"github.com/ginjaninja78/poslog-xml/internal/model"
	"github.com/ginjaninja78/poslog-xml/internal/validation"
	"github.com/ginjaninja78/poslog-xml/internal/xmlwriter"
	"github.com/ginjaninja78/poslog-xml/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single fixture.
type Result struct {
	// FixturePath is the fixture file that was processed. Empty for the
	// default transaction.
	FixturePath string

	// OutputFile is the path to the generated XML file.
	// This is empty if processing failed or nothing was written.
	OutputFile string

	// Document is the generated XML.
	Document []byte

	// Order is the transaction the document was generated from.
	Order model.Order

	// Validation holds the findings for Order.
	Validation *validation.ValidationResult

	// Comparison is set when a reference document was compared.
	Comparison *canonical.Result

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// ItemsImported is the number of items read from the items file.
	ItemsImported int

	// LineItemsCreated is the number of LineItem elements in the document.
	LineItemsCreated int

	// ValidationWarnings is the number of non-fatal validation findings.
	ValidationWarnings int

	// ProcessingTime is the time taken to process the fixture.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Options adjust a single run.
type Options struct {
	// ItemsFile overrides the fixture's items file. It is used as given,
	// not resolved against the fixture directory.
	ItemsFile string

	// ReferenceFile, when set, is compared against the generated document.
	// A mismatch fails the run.
	ReferenceFile string

	// SkipWrite generates and validates without writing an output file.
	SkipWrite bool

	// TreatWarningsAsErrors fails validation on warnings.
	TreatWarningsAsErrors bool
}

// Converter handles the conversion of a single fixture to XML.
type Converter struct {
	// fixture is nil for the default transaction.
	fixture *config.Fixture

	mainConfig *config.MainConfig
	options    Options
	logger     *zap.Logger
}

// New creates a new Converter instance.
//
// PARAMETERS:
//   - fixture: The fixture to convert, or nil for the default transaction.
//   - mainConfig: The main application configuration.
//   - logger: The logger. nil disables logging.
//
// RETURNS:
//   - A new Converter instance.
func New(fixture *config.Fixture, mainConfig *config.MainConfig, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fixture != nil {
		logger = logger.With(zap.String("fixture", fixture.Name))
	}
	return &Converter{
		fixture:    fixture,
		mainConfig: mainConfig,
		logger:     logger,
	}
}

// WithOptions returns the converter with options applied.
func (c *Converter) WithOptions(options Options) *Converter {
	c.options = options
	return c
}

// =============================================================================
// PIPELINE STEPS
// =============================================================================

// BuildOrder binds the fixture and imports its items file.
//
// RETURNS:
//   - The order.
//   - The number of items read from the items file.
//   - An error if the fixture cannot be bound or the items file is invalid.
func (c *Converter) BuildOrder() (model.Order, int, error) {
	order, err := BuildOrder(c.fixture)
	if err != nil {
		return model.Order{}, 0, errors.Wrap(err, "build order")
	}

	itemsFile := c.options.ItemsFile
	if itemsFile == "" && c.fixture != nil {
		itemsFile = c.fixture.ResolveItemsFile()
	}
	if itemsFile == "" {
		return order, 0, nil
	}

	fixture := c.fixture
	if fixture == nil {
		fixture = config.DefaultFixture()
	}
	if len(fixture.Items) == 0 {
		// Imported items replace the default basket.
		order.Basket.Items = nil
	}

	items, err := ImportItems(itemsFile, fixture)
	if err != nil {
		return model.Order{}, 0, errors.Wrap(err, "import items")
	}

	for _, item := range items {
		order.Basket.Add(item)
	}

	c.logger.Debug("Imported items",
		zap.String("file", itemsFile),
		zap.Int("items", len(items)),
	)

	return order, len(items), nil
}

// Validate checks an order with the converter's options.
func (c *Converter) Validate(order model.Order) *validation.ValidationResult {
	return validation.NewValidatorWithOptions(validation.ValidationOptions{
		TreatWarningsAsErrors: c.options.TreatWarningsAsErrors,
	}).Validate(order)
}

// Generate renders an order with the configured formatting.
func (c *Converter) Generate(order model.Order) ([]byte, error) {
	opts := xmlwriter.DefaultGenerateOptions()
	if c.mainConfig != nil && c.mainConfig.Indent {
		opts.Indent = "  "
		opts.IncludeXMLDeclaration = true
	}
	return xmlwriter.GenerateWithOptions(order, opts)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing. Result.Error
//     is set on failure; for a reference mismatch it is a
//     *canonical.MismatchError.
func (c *Converter) Run(ctx context.Context) (result Result) {
	startTime := time.Now()
	if c.fixture != nil {
		result.FixturePath = c.fixture.Path()
	}

	defer func() {
		result.Stats.ProcessingTime = time.Since(startTime)
	}()

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	// =========================================================================
	// STEP 1 + 2: BUILD ORDER AND IMPORT ITEMS
	// =========================================================================

	order, imported, err := c.BuildOrder()
	if err != nil {
		result.Error = err
		return result
	}
	result.Order = order
	result.Stats.ItemsImported = imported

	c.logger.Info("Processing transaction",
		zap.String("store", order.Store.RetailerStoreID),
		zap.String("workstation", order.Store.WorkstationID),
		zap.Int("items", len(order.Basket.Items)),
	)

	// =========================================================================
	// STEP 3: VALIDATE
	// =========================================================================

	result.Validation = c.Validate(order)
	result.Stats.ValidationWarnings = result.Validation.WarningCount

	for _, ve := range result.Validation.Errors {
		c.logger.Warn("Validation finding", zap.String("finding", ve.Error()))
	}
	if err := result.Validation.Err(); err != nil {
		result.Error = err
		return result
	}

	// =========================================================================
	// STEP 4: GENERATE XML DOCUMENT
	// =========================================================================

	doc, err := c.Generate(order)
	if err != nil {
		result.Error = errors.Wrap(err, "generate XML")
		return result
	}
	result.Document = doc
	result.Stats.LineItemsCreated = len(order.Basket.Items)

	// =========================================================================
	// STEP 5: WRITE OUTPUT FILE
	// =========================================================================

	if !c.options.SkipWrite && c.mainConfig != nil {
		outputPath, err := c.writeOutput(order, doc)
		if err != nil {
			result.Error = errors.Wrap(err, "write output")
			return result
		}
		result.OutputFile = outputPath
		c.logger.Info("Wrote output", zap.String("path", outputPath))
	}

	// =========================================================================
	// STEP 6: COMPARE WITH REFERENCE
	// =========================================================================

	if c.options.ReferenceFile != "" {
		comparison, err := canonical.CompareFile(doc, c.options.ReferenceFile)
		result.Comparison = comparison
		if err != nil {
			result.Error = err
			return result
		}
		c.logger.Info("Matches reference", zap.String("reference", c.options.ReferenceFile))
	}

	result.Success = true
	return result
}

// writeOutput writes the document under a name built from the configured
// format.
func (c *Converter) writeOutput(order model.Order, doc []byte) (string, error) {
	fm := utils.NewFileManager(c.mainConfig.InputDir, c.mainConfig.OutputDir)

	name := utils.GenerateOutputFileName(c.mainConfig.OutputNameFormat, map[string]string{
		"store":    order.Store.RetailerStoreID,
		"sequence": order.Header.TransactionSequenceID,
	})

	return fm.WriteOutput(name, doc)
}
