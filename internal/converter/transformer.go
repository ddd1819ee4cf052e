// =============================================================================
// POSLog XML Generator - Item Transformation Engine
// =============================================================================
//
// This module rewrites imported item values before they reach the basket.
// Rules come from the fixture and target one of two text fields:
//
//   - product_identifier (rendered as ItemID)
//   - item_name          (rendered as Description)
//
// Quantity and price are never transformed; they are parsed as numbers.
//
// COMMON USES:
//   - Prefixing legacy SKUs ("123456" -> "SKU123456")
//   - Zero-padding short identifiers
//   - Mapping internal codes to display names through a lookup table
//
// =============================================================================

package converter

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-faster/errors"

	"github.com/ginjaninja78/poslog-xml/internal/config"
	"github.com/ginjaninja78/poslog-xml/internal/model"
)

// Field names accepted by transformation rules.
const (
	FieldProductIdentifier = "product_identifier"
	FieldItemName          = "item_name"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer applies fixture transformation rules to basket items.
type Transformer struct {
	rules []config.TransformationRule
}

// NewTransformer creates a new Transformer with the given rules.
func NewTransformer(rules []config.TransformationRule) *Transformer {
	return &Transformer{
		rules: rules,
	}
}

// Transform applies every rule for fieldName to value, in rule order.
func (t *Transformer) Transform(fieldName, value string) (string, error) {
	result := value
	for _, rule := range t.rules {
		if rule.Field != fieldName {
			continue
		}
		for _, action := range rule.Actions {
			var err error
			result, err = ApplyTransformation(result, action)
			if err != nil {
				return "", errors.Wrapf(err, "transformation %q", action.Type)
			}
		}
	}
	return result, nil
}

// TransformItem rewrites the text fields of a basket item in place.
func (t *Transformer) TransformItem(item *model.BasketItem) error {
	var err error
	if item.ProductIdentifier, err = t.Transform(FieldProductIdentifier, item.ProductIdentifier); err != nil {
		return errors.Wrap(err, FieldProductIdentifier)
	}
	if item.ItemName, err = t.Transform(FieldItemName, item.ItemName); err != nil {
		return errors.Wrap(err, FieldItemName)
	}
	return nil
}

// =============================================================================
// TRANSFORMATION FUNCTIONS
// =============================================================================

// ApplyTransformation applies a single transformation action.
//
// PARAMETERS:
//   - value: The current value.
//   - action: The transformation action to apply.
//
// RETURNS:
//   - The transformed value.
//   - An error for an unknown action type or an invalid parameter.
func ApplyTransformation(value string, action config.TransformationAction) (string, error) {
	switch action.Type {

	// =========================================================================
	// STRING MANIPULATIONS
	// =========================================================================

	case "prepend_string":
		// "123456" + value "SKU" -> "SKU123456"
		return action.Value + value, nil

	case "append_string":
		return value + action.Value, nil

	case "trim":
		return strings.TrimSpace(value), nil

	case "trim_left":
		if action.Value != "" {
			return strings.TrimLeft(value, action.Value), nil
		}
		return strings.TrimLeft(value, " \t\n\r"), nil

	case "trim_right":
		if action.Value != "" {
			return strings.TrimRight(value, action.Value), nil
		}
		return strings.TrimRight(value, " \t\n\r"), nil

	case "uppercase":
		return strings.ToUpper(value), nil

	case "lowercase":
		return strings.ToLower(value), nil

	case "normalize_whitespace":
		return strings.Join(strings.Fields(value), " "), nil

	case "replace":
		if action.Find == "" {
			return value, nil
		}
		return strings.ReplaceAll(value, action.Find, action.Value), nil

	case "regex_replace":
		// "ABC-123" + find "[A-Z]+" value "X" -> "X-123"
		if action.Find == "" {
			return value, nil
		}
		re, err := regexp.Compile(action.Find)
		if err != nil {
			return "", errors.Wrap(err, "invalid regex pattern")
		}
		return re.ReplaceAllString(value, action.Value), nil

	case "substring":
		// VALUE FORMAT: "start,end" in runes, end exclusive.
		start, end, err := parseRange(action.Value)
		if err != nil {
			return "", err
		}
		runes := []rune(value)
		if end > len(runes) {
			end = len(runes)
		}
		if start >= end {
			return "", nil
		}
		return string(runes[start:end]), nil

	// =========================================================================
	// IDENTIFIER FORMATTING
	// =========================================================================

	case "pad_zeros_to_length":
		// "123" + value "8" -> "00000123"
		length, err := parseLength(action.Value)
		if err != nil {
			return "", err
		}
		return PadLeft(value, length, '0'), nil

	case "ensure_length":
		// Truncates long values from the right, zero-pads short ones.
		length, err := parseLength(action.Value)
		if err != nil {
			return "", err
		}
		if runes := []rune(value); len(runes) > length {
			return string(runes[:length]), nil
		}
		return PadLeft(value, length, '0'), nil

	case "remove_leading_zeros":
		result := strings.TrimLeft(value, "0")
		if result == "" && value != "" {
			return "0", nil
		}
		return result, nil

	case "extract_digits":
		var b strings.Builder
		for _, r := range value {
			if r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
		return b.String(), nil

	// =========================================================================
	// LOOKUP TABLE REPLACEMENTS
	// =========================================================================

	case "lookup":
		// Unknown values pass through unchanged.
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement, nil
		}
		return value, nil

	case "lookup_with_default":
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement, nil
		}
		return action.Value, nil

	case "if_empty_use_default":
		if strings.TrimSpace(value) == "" {
			return action.Value, nil
		}
		return value, nil

	default:
		return "", errors.Errorf("unknown transformation type: %s", action.Type)
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// PadLeft pads a string with a character on the left to reach the target
// length, counted in runes.
func PadLeft(s string, length int, padChar rune) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return strings.Repeat(string(padChar), length-n) + s
}

func parseLength(value string) (int, error) {
	length, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || length <= 0 {
		return 0, errors.Errorf("length must be a positive integer, got %q", value)
	}
	return length, nil
}

func parseRange(value string) (start, end int, err error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return 0, 0, errors.Errorf("range must be \"start,end\", got %q", value)
	}
	start, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || start < 0 {
		return 0, 0, errors.Errorf("invalid range start %q", parts[0])
	}
	end, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, errors.Errorf("invalid range end %q", parts[1])
	}
	return start, end, nil
}
