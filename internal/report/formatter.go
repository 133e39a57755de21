// =============================================================================
// Shop Analytics - Report Formatters
// =============================================================================
//
// This module renders pass results as fixed-width text tables with a header
// banner. Field order and precision are part of the output contract:
//   - currency amounts: two decimals followed by the currency symbol
//   - counts: plain integers
// Column widths are a presentation choice only.
//
// Amounts are rounded here, once, from the full-precision totals produced by
// the aggregator.
//
// =============================================================================

package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/shop-analytics/internal/aggregator"
	"github.com/ginjaninja78/shop-analytics/internal/types"
)

// Options controls report presentation.
type Options struct {
	// CurrencySymbol follows every amount, e.g. "12.50€".
	CurrencySymbol string
}

// DefaultOptions returns the presentation used by the shop.
func DefaultOptions() Options {
	return Options{CurrencySymbol: "€"}
}

const (
	narrowRule = 50
	stockRule  = 70
	topRule    = 120
)

// =============================================================================
// AMOUNTS
// =============================================================================

// Money rounds an amount to two decimals, half away from zero.
func Money(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(2)
}

// FormatMoney renders an amount with two decimals and the currency symbol.
func FormatMoney(amount float64, symbol string) string {
	return Money(amount).StringFixed(2) + symbol
}

// =============================================================================
// REVENUE
// =============================================================================

// FormatRevenue writes the revenue report.
func FormatRevenue(w io.Writer, result *aggregator.RevenueResult, opts Options) error {
	bw := bufio.NewWriter(w)
	totals := result.Totals

	writeBanner(bw, "REVENUE REPORT", narrowRule)
	fmt.Fprintf(bw, "%-28s %d\n", "Distinct products sold:", totals.DistinctProductCount)
	fmt.Fprintf(bw, "%-28s %d\n", "Total units sold:", totals.TotalUnitsSold)
	fmt.Fprintf(bw, "%-28s %s\n", "Total revenue (excl. tax):", FormatMoney(totals.TotalRevenueExTax, opts.CurrencySymbol))
	fmt.Fprintf(bw, "%-28s %s\n", "Total revenue (incl. tax):", FormatMoney(totals.TotalRevenueIncTax, opts.CurrencySymbol))
	writeSkipped(bw, result.Warnings)
	writeRule(bw, "=", narrowRule)

	return bw.Flush()
}

// =============================================================================
// STOCK
// =============================================================================

// FormatStock writes the stock report, one line per product.
func FormatStock(w io.Writer, result *aggregator.StockResult, _ Options) error {
	bw := bufio.NewWriter(w)

	writeBanner(bw, "AVAILABLE STOCK", narrowRule)
	fmt.Fprintf(bw, "%-40s %-20s %-10s\n", "Product", "Category", "Quantity")
	writeRule(bw, "-", stockRule)

	for _, p := range result.Products {
		fmt.Fprintf(bw, "%-40s %-20s %-10d\n", p.Product, p.Category, p.TotalStock)
	}

	writeSkipped(bw, result.Warnings)
	writeRule(bw, "=", stockRule)

	return bw.Flush()
}

// =============================================================================
// BEST SELLERS
// =============================================================================

// FormatTop writes the best-sellers report.
func FormatTop(w io.Writer, result *aggregator.TopResult, opts Options) error {
	bw := bufio.NewWriter(w)

	writeBanner(bw, fmt.Sprintf("TOP %d BEST-SELLING PRODUCTS", max(len(result.Products), 1)), narrowRule)
	fmt.Fprintf(bw, "%-5s %-40s %-20s %-15s %-20s %-20s\n",
		"Pos.", "Product", "Category", "Units sold", "Revenue (excl.)", "Revenue (incl.)")
	writeRule(bw, "-", topRule)

	for i, p := range result.Products {
		fmt.Fprintf(bw, "%-5d %-40s %-20s %-15d %-20s %-20s\n",
			i+1,
			p.Product,
			p.Category,
			p.TotalQuantity,
			FormatMoney(p.TotalRevenueExTax, opts.CurrencySymbol),
			FormatMoney(p.TotalRevenueIncTax, opts.CurrencySymbol),
		)
	}

	writeSkipped(bw, result.Warnings)
	writeRule(bw, "=", topRule)

	return bw.Flush()
}

// =============================================================================
// HELPERS
// =============================================================================

func writeBanner(w io.Writer, title string, width int) {
	fmt.Fprintln(w)
	writeRule(w, "=", width)
	fmt.Fprintln(w, title)
	writeRule(w, "=", width)
}

func writeRule(w io.Writer, char string, width int) {
	fmt.Fprintln(w, strings.Repeat(char, width))
}

// writeSkipped lists the rows left out of the report, one line each, so
// that they stay visible whatever the log level.
func writeSkipped(w io.Writer, warnings []types.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "Rows skipped: %d\n", len(warnings))
	for _, warning := range warnings {
		fmt.Fprintf(w, "  Warning: row %d [%s] %s\n", warning.Row, warning.Kind, warning.Message)
	}
}
