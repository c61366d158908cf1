// =============================================================================
// CSV Sales Watcher - Row Validation
// =============================================================================
//
// This module turns one raw CSV row (a header -> value map) into a validated
// HourlySales record.
//
// RULES:
//   - sales_amount : decimal number, strictly greater than zero
//   - product      : non-empty text
//   - region       : one of North, West, East, South (case-sensitive)
//
// A row is decoded all-or-nothing: the first failing field is reported as a
// *ValidationError and no record is produced.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/csv-sales-watcher/internal/config"
	"github.com/ginjaninja78/csv-sales-watcher/internal/types"
)

// Rule names reported in ValidationError.Rule.
const (
	RuleRequired = "required"
	RuleDecimal  = "decimal"
	RulePositive = "positive"
	RuleRegion   = "region"
	RuleNotEmpty = "not_empty"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single field that failed validation.
type ValidationError struct {
	// Field is the column name of the field that failed validation.
	Field string

	// Value is the raw value that failed validation.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Err is the underlying cause, usually one of the types sentinels.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("field '%s' failed %s: %v (value: '%s')", e.Field, e.Rule, e.Err, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// =============================================================================
// DECODER
// =============================================================================

// Decoder validates raw rows into HourlySales records.
type Decoder struct {
	fields config.FieldNames
}

// DefaultFieldNames are the column names used when none are configured.
var DefaultFieldNames = config.FieldNames{
	Amount:  "sales_amount",
	Product: "product",
	Region:  "region",
}

// NewDecoder creates a decoder for the given column names. Empty names fall
// back to DefaultFieldNames.
func NewDecoder(fields config.FieldNames) *Decoder {
	if fields.Amount == "" {
		fields.Amount = DefaultFieldNames.Amount
	}
	if fields.Product == "" {
		fields.Product = DefaultFieldNames.Product
	}
	if fields.Region == "" {
		fields.Region = DefaultFieldNames.Region
	}
	return &Decoder{fields: fields}
}

// Decode validates one row.
//
// PARAMETERS:
//   - row: The raw header -> value map of one CSV row.
//
// RETURNS:
//   - The decoded record.
//   - A *ValidationError for the first field that fails.
func (d *Decoder) Decode(row map[string]string) (types.HourlySales, error) {
	amount, err := d.decodeAmount(row)
	if err != nil {
		return types.HourlySales{}, err
	}

	product, ok := row[d.fields.Product]
	if !ok {
		return types.HourlySales{}, missing(d.fields.Product)
	}
	if strings.TrimSpace(product) == "" {
		return types.HourlySales{}, &ValidationError{
			Field: d.fields.Product, Value: product, Rule: RuleNotEmpty, Err: types.ErrEmptyProduct,
		}
	}

	rawRegion, ok := row[d.fields.Region]
	if !ok {
		return types.HourlySales{}, missing(d.fields.Region)
	}
	region, err := types.ParseRegion(rawRegion)
	if err != nil {
		return types.HourlySales{}, &ValidationError{
			Field: d.fields.Region, Value: rawRegion, Rule: RuleRegion, Err: err,
		}
	}

	hs, err := types.NewHourlySales(amount, product, region)
	if err != nil {
		return types.HourlySales{}, &ValidationError{Field: d.fields.Amount, Value: row[d.fields.Amount], Rule: RulePositive, Err: err}
	}
	return hs, nil
}

// decodeAmount parses the amount as a decimal and requires it to be positive.
func (d *Decoder) decodeAmount(row map[string]string) (float64, error) {
	raw, ok := row[d.fields.Amount]
	if !ok {
		return 0, missing(d.fields.Amount)
	}

	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ValidationError{Field: d.fields.Amount, Value: raw, Rule: RuleDecimal, Err: err}
	}
	if !value.IsPositive() {
		return 0, &ValidationError{
			Field: d.fields.Amount, Value: raw, Rule: RulePositive, Err: types.ErrNonPositiveAmount,
		}
	}

	amount, _ := value.Float64()
	return amount, nil
}

func missing(field string) *ValidationError {
	return &ValidationError{Field: field, Rule: RuleRequired, Err: fmt.Errorf("column %q not found", field)}
}
