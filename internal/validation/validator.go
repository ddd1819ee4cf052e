// =============================================================================
// POSLog XML Generator - Validation Engine
// =============================================================================
//
// This module checks an order before it is rendered. The writer itself does
// no validation, so every externally supplied order (fixture files, imported
// CSV and XLSX baskets) passes through here first.
//
// RULES:
//   Store level
//     - retailer_store_id must not be empty            (error)
//     - workstation_id must not be empty               (error)
//     - timezone must name a known IANA zone           (error)
//   Item level
//     - item_quantity must be at least 1               (error)
//     - price must not be negative                     (error)
//     - product_identifier should not be empty         (warning)
//     - item_name should not be empty                  (warning)
//     - price should have at most two decimal places   (warning, it is rounded)
//
// ERROR HANDLING:
//   - Errors are collected, not returned on the first failure
//   - Each error names the line item (1-indexed) and the offending value
//   - Warnings never fail validation unless TreatWarningsAsErrors is set
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/ginjaninja78/poslog-xml/internal/model"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the name of the field that failed validation.
	Field string

	// Value is the actual value that failed validation.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string

	// LineItem is the 1-indexed basket position, or 0 for store fields.
	LineItem int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	where := "store"
	if e.LineItem > 0 {
		where = fmt.Sprintf("line item %d", e.LineItem)
	}
	return fmt.Sprintf("[%s] %s, field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		where,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no fatal errors.
	IsValid bool

	// Errors contains all findings, warnings included, in rule order.
	Errors []*ValidationError

	// ErrorCount is the number of fatal errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// ItemsValidated is the number of basket items checked.
	ItemsValidated int
}

// Err returns nil for a valid result. Otherwise it returns the first fatal
// finding, wrapped with the total count, so callers can errors.As it into a
// *ValidationError.
func (r *ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	// With TreatWarningsAsErrors and no errors, the first warning is reported.
	for _, e := range r.Errors {
		if e.Severity == SeverityError || r.ErrorCount == 0 {
			return errors.Wrapf(e, "validation failed with %d error(s) and %d warning(s)", r.ErrorCount, r.WarningCount)
		}
	}
	return errors.New("validation failed")
}

// =============================================================================
// VALIDATOR
// =============================================================================

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// TreatWarningsAsErrors makes any warning fail validation.
	// Default: false
	TreatWarningsAsErrors bool
}

// Validator checks orders.
type Validator struct {
	options ValidationOptions
}

// NewValidator creates a Validator with default options.
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithOptions creates a Validator with custom options.
func NewValidatorWithOptions(options ValidationOptions) *Validator {
	return &Validator{options: options}
}

// Validate checks an order with default options.
func Validate(order model.Order) *ValidationResult {
	return NewValidator().Validate(order)
}

// Validate checks the store and every basket item of an order.
//
// PARAMETERS:
//   - order: The order to check.
//
// RETURNS:
//   - A ValidationResult with every finding. It is never nil.
func (v *Validator) Validate(order model.Order) *ValidationResult {
	result := &ValidationResult{
		IsValid:        true,
		Errors:         make([]*ValidationError, 0),
		ItemsValidated: len(order.Basket.Items),
	}

	findings := validateStore(order.Store)
	for i, item := range order.Basket.Items {
		findings = append(findings, validateItem(item, i+1)...)
	}

	for _, f := range findings {
		result.Errors = append(result.Errors, f)

		if f.Severity == SeverityError {
			result.ErrorCount++
			result.IsValid = false
			continue
		}

		result.WarningCount++
		if v.options.TreatWarningsAsErrors {
			result.IsValid = false
		}
	}

	return result
}

// =============================================================================
// RULES
// =============================================================================

func validateStore(store model.Store) []*ValidationError {
	var errs []*ValidationError

	if strings.TrimSpace(store.RetailerStoreID) == "" {
		errs = append(errs, &ValidationError{
			Severity: SeverityError,
			Field:    "retailer_store_id",
			Value:    store.RetailerStoreID,
			Rule:     "required",
			Message:  "store id must not be empty",
		})
	}

	if strings.TrimSpace(store.WorkstationID) == "" {
		errs = append(errs, &ValidationError{
			Severity: SeverityError,
			Field:    "workstation_id",
			Value:    store.WorkstationID,
			Rule:     "required",
			Message:  "workstation id must not be empty",
		})
	}

	if _, err := store.Location(); err != nil {
		errs = append(errs, &ValidationError{
			Severity: SeverityError,
			Field:    "timezone",
			Value:    store.Timezone,
			Rule:     "timezone",
			Message:  "unknown timezone",
		})
	}

	return errs
}

func validateItem(item model.BasketItem, position int) []*ValidationError {
	var errs []*ValidationError

	add := func(severity, field, value, rule, message string) {
		errs = append(errs, &ValidationError{
			Severity: severity,
			Field:    field,
			Value:    value,
			Rule:     rule,
			Message:  message,
			LineItem: position,
		})
	}

	if strings.TrimSpace(item.ProductIdentifier) == "" {
		add(SeverityWarning, "product_identifier", item.ProductIdentifier, "required", "product identifier is empty")
	}

	if strings.TrimSpace(item.ItemName) == "" {
		add(SeverityWarning, "item_name", item.ItemName, "required", "item name is empty")
	}

	if item.ItemQuantity < 1 {
		add(SeverityError, "item_quantity", fmt.Sprint(item.ItemQuantity), "min", "quantity must be at least 1")
	}

	if item.Price.IsNegative() {
		add(SeverityError, "price", item.Price.String(), "min", "price must not be negative")
	} else if !item.Price.Equal(item.Price.Round(2)) {
		add(SeverityWarning, "price", item.Price.String(), "precision",
			fmt.Sprintf("price has more than two decimal places and renders as %s", item.Price.StringFixed(2)))
	}

	return errs
}

// =============================================================================
// ERROR REPORTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errs []*ValidationError) string {
	if len(errs) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	fmt.Fprintf(&builder, "Validation completed with %d finding(s):\n\n", len(errs))

	for i, err := range errs {
		fmt.Fprintf(&builder, "%d. %s\n", i+1, err.Error())
	}

	return builder.String()
}
