// =============================================================================
// Shop Analytics - Workbook Export
// =============================================================================
//
// This module writes a snapshot of all three reports to an XLSX workbook.
//
// WORKBOOK LAYOUT:
//   Revenue  : one row per global total
//   Stock    : Product, Category, Quantity (ordered by product)
//   Top      : Position, Product, Category, Units sold, both revenues
//   Warnings : every skipped row, tagged with the report that skipped it
//              (only present when there are warnings)
//
// Amounts are rounded to two decimals exactly as in the text reports and are
// stored as numbers, so the sheets can be summed or charted.
//
// =============================================================================

package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/shop-analytics/internal/analytics"
)

// Sheet names of the exported workbook.
const (
	SheetRevenue  = "Revenue"
	SheetStock    = "Stock"
	SheetTop      = "Top"
	SheetWarnings = "Warnings"
)

// workbookStyles holds the style IDs registered on a workbook.
type workbookStyles struct {
	header int
	money  int
}

// WriteWorkbook saves the snapshot as an XLSX workbook at path.
//
// PARAMETERS:
//   - path: The output file. An existing file is overwritten.
//   - snapshot: The results to export.
//   - opts: Presentation options. The currency symbol is part of the
//     number format of the amount cells.
//
// RETURNS:
//   - An error if the workbook cannot be built or saved.
func WriteWorkbook(path string, snapshot *analytics.Snapshot, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := registerStyles(f, opts)
	if err != nil {
		return err
	}

	// The default sheet becomes the first report sheet.
	if err := f.SetSheetName(f.GetSheetName(0), SheetRevenue); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := writeRevenueSheet(f, snapshot, styles); err != nil {
		return err
	}
	if err := writeStockSheet(f, snapshot, styles); err != nil {
		return err
	}
	if err := writeTopSheet(f, snapshot, styles); err != nil {
		return err
	}
	if err := writeWarningsSheet(f, snapshot, styles); err != nil {
		return err
	}

	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

func registerStyles(f *excelize.File, opts Options) (workbookStyles, error) {
	var styles workbookStyles
	var err error

	styles.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return styles, fmt.Errorf("failed to create header style: %w", err)
	}

	moneyFormat := fmt.Sprintf(`0.00"%s"`, opts.CurrencySymbol)
	styles.money, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &moneyFormat,
	})
	if err != nil {
		return styles, fmt.Errorf("failed to create amount style: %w", err)
	}

	return styles, nil
}

// =============================================================================
// SHEETS
// =============================================================================

func writeRevenueSheet(f *excelize.File, snapshot *analytics.Snapshot, styles workbookStyles) error {
	totals := snapshot.Revenue.Totals

	rows := [][]interface{}{
		{"Figure", "Value"},
		{"Distinct products sold", totals.DistinctProductCount},
		{"Total units sold", totals.TotalUnitsSold},
		{"Total revenue (excl. tax)", Money(totals.TotalRevenueExTax).InexactFloat64()},
		{"Total revenue (incl. tax)", Money(totals.TotalRevenueIncTax).InexactFloat64()},
	}
	if err := writeRows(f, SheetRevenue, rows, styles.header); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetRevenue, "B4", "B5", styles.money); err != nil {
		return fmt.Errorf("failed to style %s sheet: %w", SheetRevenue, err)
	}
	return f.SetColWidth(SheetRevenue, "A", "A", 30)
}

func writeStockSheet(f *excelize.File, snapshot *analytics.Snapshot, styles workbookStyles) error {
	if _, err := f.NewSheet(SheetStock); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", SheetStock, err)
	}

	rows := [][]interface{}{{"Product", "Category", "Quantity"}}
	for _, p := range snapshot.Stock.Products {
		rows = append(rows, []interface{}{p.Product, p.Category, p.TotalStock})
	}
	if err := writeRows(f, SheetStock, rows, styles.header); err != nil {
		return err
	}
	return f.SetColWidth(SheetStock, "A", "B", 30)
}

func writeTopSheet(f *excelize.File, snapshot *analytics.Snapshot, styles workbookStyles) error {
	if _, err := f.NewSheet(SheetTop); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", SheetTop, err)
	}

	rows := [][]interface{}{{"Position", "Product", "Category", "Units sold", "Revenue (excl. tax)", "Revenue (incl. tax)"}}
	for i, p := range snapshot.Top.Products {
		rows = append(rows, []interface{}{
			i + 1,
			p.Product,
			p.Category,
			p.TotalQuantity,
			Money(p.TotalRevenueExTax).InexactFloat64(),
			Money(p.TotalRevenueIncTax).InexactFloat64(),
		})
	}
	if err := writeRows(f, SheetTop, rows, styles.header); err != nil {
		return err
	}

	if len(rows) > 1 {
		last := fmt.Sprintf("F%d", len(rows))
		if err := f.SetCellStyle(SheetTop, "E2", last, styles.money); err != nil {
			return fmt.Errorf("failed to style %s sheet: %w", SheetTop, err)
		}
	}
	return f.SetColWidth(SheetTop, "B", "F", 22)
}

func writeWarningsSheet(f *excelize.File, snapshot *analytics.Snapshot, styles workbookStyles) error {
	warnings := snapshot.Warnings()
	if len(warnings) == 0 {
		return nil
	}

	if _, err := f.NewSheet(SheetWarnings); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", SheetWarnings, err)
	}

	rows := [][]interface{}{{"Report", "Row", "Product", "Kind", "Field", "Value", "Message"}}
	for _, w := range warnings {
		rows = append(rows, []interface{}{w.Report, w.Row, w.Product, string(w.Kind), w.Field, w.Value, w.Message})
	}
	return writeRows(f, SheetWarnings, rows, styles.header)
}

// writeRows writes rows from A1 down and styles the first one as a header.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write %s sheet: %w", sheet, err)
		}
	}

	lastHeader, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s sheet: %w", sheet, err)
	}
	return nil
}
