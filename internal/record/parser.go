// =============================================================================
// Shop Analytics - Record Parser
// =============================================================================
//
// This module turns one raw input row into a validated, typed record, or
// rejects it with a reason. Downstream code never looks at raw strings again.
//
// VALIDATION ORDER:
//   1. Completeness: every required column must have a non-empty value.
//      Failure: IncompleteRow (carries the product name when present).
//   2. Numeric conversion: quantities and stock are integers, prices and
//      tax rates are decimals. Failure: InvalidNumeric (carries the column
//      and the original string).
//
// Parsing is a pure function of its inputs: no logging and no I/O. The
// caller decides how a rejection is reported.
//
// =============================================================================

package record

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ginjaninja78/shop-analytics/internal/config"
	"github.com/ginjaninja78/shop-analytics/internal/types"
)

// =============================================================================
// REJECTION
// =============================================================================

// Rejection explains why a row was excluded from aggregation.
type Rejection struct {
	Kind types.RejectionKind

	// Product is the row's product name, or "" when it was empty.
	Product string

	// Field is the column that caused the rejection.
	Field string

	// Value is the original string of Field.
	Value string

	// Reason is a short human-readable explanation.
	Reason string
}

// Error implements the error interface.
func (r *Rejection) Error() string {
	switch r.Kind {
	case types.IncompleteRow:
		return fmt.Sprintf("incomplete row for product %q: %s", r.Product, r.Reason)
	default:
		return fmt.Sprintf("invalid value %q in field %s for product %q: %s", r.Value, r.Field, r.Product, r.Reason)
	}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseSale validates a sales row.
//
// PARAMETERS:
//   - row: The raw row.
//   - columns: The header names of each logical field.
//   - required: The columns the calling report needs; all must be non-empty.
//
// RETURNS:
//   - The typed record.
//   - A *Rejection when the row must be skipped.
func ParseSale(row types.RawRow, columns config.Columns, required []string) (types.SaleRecord, error) {
	product := row[columns.Product]

	if err := checkComplete(row, product, required); err != nil {
		return types.SaleRecord{}, err
	}

	quantity, err := parseCount(row, product, columns.QuantitySold)
	if err != nil {
		return types.SaleRecord{}, err
	}

	price, err := parseAmount(row, product, columns.UnitPrice)
	if err != nil {
		return types.SaleRecord{}, err
	}

	tax, err := parseAmount(row, product, columns.TaxRate)
	if err != nil {
		return types.SaleRecord{}, err
	}

	return types.SaleRecord{
		Product:        product,
		Category:       row[columns.Category],
		QuantitySold:   quantity,
		UnitPrice:      price,
		TaxRatePercent: tax,
	}, nil
}

// ParseStock validates an inventory row.
func ParseStock(row types.RawRow, columns config.Columns, required []string) (types.StockRecord, error) {
	product := row[columns.Product]

	if err := checkComplete(row, product, required); err != nil {
		return types.StockRecord{}, err
	}

	stock, err := parseCount(row, product, columns.StockQuantity)
	if err != nil {
		return types.StockRecord{}, err
	}

	return types.StockRecord{
		Product:       product,
		Category:      row[columns.Category],
		StockQuantity: stock,
	}, nil
}

// checkComplete rejects the row if any required column is blank.
func checkComplete(row types.RawRow, product string, required []string) error {
	for _, column := range required {
		if strings.TrimSpace(row[column]) == "" {
			return &Rejection{
				Kind:    types.IncompleteRow,
				Product: product,
				Field:   column,
				Value:   row[column],
				Reason:  fmt.Sprintf("required field %s is empty", column),
			}
		}
	}
	return nil
}

// =============================================================================
// NUMERIC CONVERSION
// =============================================================================

// parseCount converts an integer field. Surrounding whitespace is allowed;
// empty, fractional, non-numeric and negative values are rejected.
func parseCount(row types.RawRow, product, column string) (int, error) {
	raw := row[column]
	value := strings.TrimSpace(raw)

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, invalidNumeric(product, column, raw, "not a whole number")
	}
	if n < 0 {
		return 0, invalidNumeric(product, column, raw, "must not be negative")
	}

	return n, nil
}

// parseAmount converts a decimal field written in plain decimal or
// exponent notation. Hexadecimal floats, digit separators, NaN, infinities
// and negative values are rejected.
func parseAmount(row types.RawRow, product, column string) (float64, error) {
	raw := row[column]
	value := strings.TrimSpace(raw)

	if strings.ContainsAny(value, "xX_") {
		return 0, invalidNumeric(product, column, raw, "not a decimal number")
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalidNumeric(product, column, raw, "not a decimal number")
	}
	if f < 0 {
		return 0, invalidNumeric(product, column, raw, "must not be negative")
	}

	return f, nil
}

func invalidNumeric(product, column, raw, reason string) *Rejection {
	return &Rejection{
		Kind:    types.InvalidNumeric,
		Product: product,
		Field:   column,
		Value:   raw,
		Reason:  reason,
	}
}
