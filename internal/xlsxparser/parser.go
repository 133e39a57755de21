// =============================================================================
// Shop Analytics - XLSX Table Source
// =============================================================================
//
// This module reads the sales-and-inventory table from an Excel workbook.
// The expected layout is the same as the CSV export:
//
//   | Producte | Categoria  | Quantitat_Venuda | Preu_Unitari | IVA | Estoc_Disponible |
//   |----------|------------|------------------|--------------|-----|------------------|
//   | Mouse    | Perifèrics | 2                | 10           | 21  | 40               |
//
// The first row of the sheet is the header. Cells are read as raw values so
// that number formats (currency symbols, thousands separators) do not leak
// into the numeric fields.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/shop-analytics/internal/types"
)

// Read opens a workbook and returns the header and data rows of one sheet.
//
// PARAMETERS:
//   - filePath: The path to the .xlsx file.
//   - sheet: The worksheet to read. Empty selects the first sheet.
//
// RETURNS:
//   - The parsed table.
//   - A *types.FileError if the file cannot be opened, or a wrapped error if
//     it is not a readable workbook or the sheet does not exist.
func Read(filePath, sheet string) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &types.FileError{Path: filePath, Err: err}
	}
	defer file.Close()

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer workbook.Close()

	table, err := ReadWorkbook(workbook, sheet)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath

	return table, nil
}

// ReadWorkbook extracts the table from an already open workbook.
func ReadWorkbook(workbook *excelize.File, sheet string) (*types.Table, error) {
	if sheet == "" {
		sheet = workbook.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	}

	if index, err := workbook.GetSheetIndex(sheet); err != nil || index < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	rows, err := workbook.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	table := &types.Table{}
	if len(rows) == 0 {
		return table, nil
	}

	table.Headers = cleanHeaders(rows[0])
	table.Rows = make([]types.RawRow, 0, len(rows)-1)

	for _, cells := range rows[1:] {
		// Rows without a single cell are unused sheet space, the equivalent
		// of a blank line in CSV.
		if len(cells) == 0 {
			continue
		}

		row := make(types.RawRow, len(table.Headers))
		for i, header := range table.Headers {
			if i < len(cells) {
				row[header] = cells[i]
			} else {
				row[header] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// cleanHeaders trims header names and names blank headers by position.
// The first column with a given name keeps it.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	seen := make(map[string]bool, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		} else if seen[header] {
			header = fmt.Sprintf("%s_%d", header, i+1)
		}
		seen[header] = true
		cleaned[i] = header
	}
	return cleaned
}
