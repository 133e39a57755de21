// =============================================================================
// Shop Analytics - Shared Types
// =============================================================================
//
// This package contains the domain types shared by the record parser, the
// aggregator and the report formatters. Keeping them here avoids import
// cycles between:
//   - record
//   - aggregator
//   - report
//
// =============================================================================

package types

import (
	"errors"
	"fmt"
)

// =============================================================================
// RAW INPUT
// =============================================================================

// RawRow is one data row of the input table, keyed by column header.
// Rows are read-only once produced by a table source.
type RawRow map[string]string

// Table is a fully materialized input file: the header row plus every data
// row in file order.
type Table struct {
	// SourceFile is the path the table was read from.
	SourceFile string

	// Headers contains the column headers exactly as found in the file.
	Headers []string

	// Rows contains the data rows in file order.
	Rows []RawRow
}

// =============================================================================
// VALIDATED RECORDS
// =============================================================================

// SaleRecord is a validated sales row.
type SaleRecord struct {
	Product        string
	Category       string
	QuantitySold   int
	UnitPrice      float64
	TaxRatePercent float64
}

// RevenueExTax returns quantity × unit price.
func (r SaleRecord) RevenueExTax() float64 {
	return float64(r.QuantitySold) * r.UnitPrice
}

// RevenueIncTax returns the revenue with the row's tax rate applied.
func (r SaleRecord) RevenueIncTax() float64 {
	return r.RevenueExTax() * (1 + r.TaxRatePercent/100)
}

// StockRecord is a validated inventory row.
type StockRecord struct {
	Product       string
	Category      string
	StockQuantity int
}

// =============================================================================
// AGGREGATES
// =============================================================================

// ProductAggregate accumulates the sales of one product key.
type ProductAggregate struct {
	Product            string
	Category           string
	TotalQuantity      int
	TotalRevenueExTax  float64
	TotalRevenueIncTax float64
}

// StockAggregate accumulates the stock of one product key.
type StockAggregate struct {
	Product    string
	Category   string
	TotalStock int
}

// GlobalTotals holds the revenue report figures.
type GlobalTotals struct {
	DistinctProductCount int
	TotalUnitsSold       int
	TotalRevenueExTax    float64
	TotalRevenueIncTax   float64
}

// =============================================================================
// REJECTIONS
// =============================================================================

// RejectionKind classifies why a row was excluded from aggregation.
type RejectionKind string

const (
	// IncompleteRow means a required field value was empty.
	IncompleteRow RejectionKind = "IncompleteRow"

	// InvalidNumeric means a numeric field failed conversion.
	InvalidNumeric RejectionKind = "InvalidNumeric"
)

// Warning records one rejected row. Every rejection produces exactly one.
type Warning struct {
	// Row is the 1-based data row number (the header is not counted).
	Row int

	// Product is the row's product name, or "" when it was not available.
	Product string

	Kind RejectionKind

	// Field is the offending column: the first blank required column for an
	// incomplete row, the unparsable column for an invalid number.
	Field string

	// Value is the original string of the offending field.
	Value string

	Message string
}

// =============================================================================
// SOURCE ERRORS
// =============================================================================

// ErrFileNotFound is matched (with errors.Is) by every failure to open the
// input file: absent, unreadable or not a regular file.
var ErrFileNotFound = errors.New("input file not found or unreadable")

// FileError reports that the input file could not be opened.
type FileError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("cannot open input file %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrFileNotFound and the underlying cause.
func (e *FileError) Unwrap() []error {
	return []error{ErrFileNotFound, e.Err}
}
