package aggregator

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/shop-analytics/internal/config"
	"github.com/ginjaninja78/shop-analytics/internal/record"
	"github.com/ginjaninja78/shop-analytics/internal/types"
)

var allHeaders = []string{"Producte", "Categoria", "Quantitat_Venuda", "Preu_Unitari", "IVA", "Estoc_Disponible"}

// row builds a full row in allHeaders order.
func row(product, category, qty, price, tax, stock string) types.RawRow {
	return types.RawRow{
		"Producte":         product,
		"Categoria":        category,
		"Quantitat_Venuda": qty,
		"Preu_Unitari":     price,
		"IVA":              tax,
		"Estoc_Disponible": stock,
	}
}

func table(rows ...types.RawRow) *types.Table {
	return &types.Table{Headers: allHeaders, Rows: rows}
}

func newAggregator() *Aggregator {
	return New(config.DefaultColumns(), nil)
}

// =============================================================================
// REVENUE
// =============================================================================

func TestRevenue_MouseScenario(t *testing.T) {
	result, err := newAggregator().Revenue(table(
		row("Mouse", "Perifèrics", "2", "10", "21", "5"),
		row("Mouse", "Perifèrics", "3", "10", "21", "5"),
	))
	require.NoError(t, err)

	assert.Equal(t, 5, result.Totals.TotalUnitsSold)
	assert.Equal(t, 1, result.Totals.DistinctProductCount)
	assert.InDelta(t, 50.00, result.Totals.TotalRevenueExTax, 1e-9)
	assert.InDelta(t, 60.50, result.Totals.TotalRevenueIncTax, 1e-9)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 2, result.RowsRead)
}

func TestRevenue_IncTaxNeverBelowExTax(t *testing.T) {
	result, err := newAggregator().Revenue(table(
		row("A", "X", "1", "9.99", "0", ""),
		row("B", "X", "7", "0.01", "4", ""),
		row("C", "X", "3", "120", "21", ""),
		row("D", "X", "0", "50", "10", ""),
	))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.Totals.TotalRevenueIncTax, result.Totals.TotalRevenueExTax)
	assert.Equal(t, 4, result.Totals.DistinctProductCount)
}

func TestRevenue_ProductKeysAreCaseSensitive(t *testing.T) {
	result, err := newAggregator().Revenue(table(
		row("Mouse", "X", "1", "1", "0", ""),
		row("mouse", "X", "1", "1", "0", ""),
	))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Totals.DistinctProductCount)
}

func TestRevenue_ProductKeysAreExact(t *testing.T) {
	result, err := newAggregator().Revenue(table(
		row("Mouse", "X", "1", "1", "0", ""),
		row(" Mouse ", "X", " 2 ", "1", "0", ""),
	))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Totals.DistinctProductCount)
	assert.Equal(t, 3, result.Totals.TotalUnitsSold, "numbers are read through surrounding spaces")
	assert.Empty(t, result.Warnings)
}

func TestRevenue_EmptyProductRejectedOnce(t *testing.T) {
	result, err := newAggregator().Revenue(table(
		row("", "X", "4", "10", "21", ""),
		row("Mouse", "X", "1", "10", "0", ""),
	))
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, types.IncompleteRow, result.Warnings[0].Kind)
	assert.Equal(t, 1, result.Warnings[0].Row)
	assert.Equal(t, "", result.Warnings[0].Product)

	assert.Equal(t, 1, result.Totals.TotalUnitsSold)
	assert.Equal(t, 1, result.Totals.DistinctProductCount)
	assert.InDelta(t, 10.0, result.Totals.TotalRevenueExTax, 1e-9)
}

func TestRevenue_InvalidQuantityRejectedOnce(t *testing.T) {
	result, err := newAggregator().Revenue(table(
		row("Mouse", "X", "abc", "10", "21", ""),
		row("Teclat", "X", "2", "20", "21", ""),
	))
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	w := result.Warnings[0]
	assert.Equal(t, types.InvalidNumeric, w.Kind)
	assert.Equal(t, "Quantitat_Venuda", w.Field)
	assert.Equal(t, "abc", w.Value)
	assert.Equal(t, "Mouse", w.Product)
	assert.Contains(t, w.Message, "Quantitat_Venuda")

	assert.Equal(t, 2, result.Totals.TotalUnitsSold)
	assert.Equal(t, 1, result.Totals.DistinctProductCount)
}

func TestRevenue_CategoryNotRequired(t *testing.T) {
	tbl := &types.Table{
		Headers: []string{"Producte", "Quantitat_Venuda", "Preu_Unitari", "IVA"},
		Rows:    []types.RawRow{{"Producte": "Mouse", "Quantitat_Venuda": "1", "Preu_Unitari": "2", "IVA": "0"}},
	}

	result, err := newAggregator().Revenue(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Totals.TotalUnitsSold)
}

// =============================================================================
// SCHEMA
// =============================================================================

func TestMissingTaxColumn(t *testing.T) {
	tbl := &types.Table{
		Headers: []string{"Producte", "Categoria", "Quantitat_Venuda", "Preu_Unitari", "Estoc_Disponible"},
		Rows: []types.RawRow{
			{"Producte": "Mouse", "Categoria": "X", "Quantitat_Venuda": "abc", "Preu_Unitari": "1", "Estoc_Disponible": "4"},
		},
	}
	agg := newAggregator()

	_, err := agg.Revenue(tbl)
	var schemaErr *record.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"IVA"}, schemaErr.Missing)

	_, err = agg.Top(tbl, 3)
	require.ErrorAs(t, err, &schemaErr)

	stock, err := agg.Stock(tbl)
	require.NoError(t, err)
	require.Len(t, stock.Products, 1)
	assert.Equal(t, 4, stock.Products[0].TotalStock)
}

func TestSchemaErrorShortCircuitsRows(t *testing.T) {
	var buf bytes.Buffer
	agg := New(config.DefaultColumns(), log.New(&buf))

	tbl := &types.Table{
		Headers: []string{"Producte"},
		Rows:    []types.RawRow{{"Producte": ""}},
	}

	_, err := agg.Revenue(tbl)
	require.Error(t, err)
	assert.Empty(t, buf.String(), "no row may be inspected after a schema failure")
}

// =============================================================================
// STOCK
// =============================================================================

func TestStock_MergesByProduct(t *testing.T) {
	result, err := newAggregator().Stock(table(
		row("Mouse", "Perifèrics", "", "", "", "10"),
		row("Consola", "Consoles", "", "", "", "3"),
		row("Mouse", "Accessoris", "", "", "", "15"),
	))
	require.NoError(t, err)

	assert.Equal(t, []types.StockAggregate{
		{Product: "Consola", Category: "Consoles", TotalStock: 3},
		{Product: "Mouse", Category: "Accessoris", TotalStock: 25},
	}, result.Products)
}

func TestStock_RejectsBadRows(t *testing.T) {
	result, err := newAggregator().Stock(table(
		row("Mouse", "Perifèrics", "", "", "", "ten"),
		row("Teclat", "", "", "", "", "2"),
		row("Cable", "Accessoris", "", "", "", "1"),
	))
	require.NoError(t, err)

	require.Len(t, result.Warnings, 2)
	assert.Equal(t, types.InvalidNumeric, result.Warnings[0].Kind)
	assert.Equal(t, types.IncompleteRow, result.Warnings[1].Kind)
	assert.Equal(t, []types.StockAggregate{{Product: "Cable", Category: "Accessoris", TotalStock: 1}}, result.Products)
}

// =============================================================================
// TOP
// =============================================================================

func TestTop_TieBreakKeepsFirstSeenOrder(t *testing.T) {
	result, err := newAggregator().Top(table(
		row("A", "X", "10", "1", "0", ""),
		row("B", "X", "10", "1", "0", ""),
		row("C", "X", "15", "1", "0", ""),
	), 3)
	require.NoError(t, err)

	names := make([]string, len(result.Products))
	for i, p := range result.Products {
		names[i] = p.Product
	}
	assert.Equal(t, []string{"C", "A", "B"}, names)
}

func TestTop_TieBreakUsesFirstOccurrence(t *testing.T) {
	// B first appears before A; A catches up later.
	result, err := newAggregator().Top(table(
		row("B", "X", "4", "1", "0", ""),
		row("A", "X", "2", "1", "0", ""),
		row("A", "X", "2", "1", "0", ""),
	), 3)
	require.NoError(t, err)

	require.Len(t, result.Products, 2)
	assert.Equal(t, "B", result.Products[0].Product)
	assert.Equal(t, "A", result.Products[1].Product)
}

func TestTop_FewerProductsThanN(t *testing.T) {
	result, err := newAggregator().Top(table(
		row("Mouse", "X", "1", "1", "0", ""),
		row("Consola", "X", "5", "1", "0", ""),
	), 3)
	require.NoError(t, err)

	require.Len(t, result.Products, 2)
	assert.Equal(t, "Consola", result.Products[0].Product)
	assert.Equal(t, "Mouse", result.Products[1].Product)
	assert.Equal(t, 2, result.DistinctProducts)
}

func TestTop_TruncatesAndAggregates(t *testing.T) {
	result, err := newAggregator().Top(table(
		row("Mouse", "Perifèrics", "2", "10", "21", ""),
		row("Joc", "Videojocs", "1", "60", "21", ""),
		row("Cable", "Accessoris", "9", "3", "21", ""),
		row("Consola", "Consoles", "4", "300", "21", ""),
		row("Mouse", "Accessoris", "3", "10", "21", ""),
	), 3)
	require.NoError(t, err)

	require.Len(t, result.Products, 3)
	assert.Equal(t, 4, result.DistinctProducts)

	top := result.Products[0]
	assert.Equal(t, "Cable", top.Product)

	mouse := result.Products[1]
	assert.Equal(t, "Mouse", mouse.Product)
	assert.Equal(t, "Accessoris", mouse.Category, "latest category wins")
	assert.Equal(t, 5, mouse.TotalQuantity)
	assert.InDelta(t, 50.0, mouse.TotalRevenueExTax, 1e-9)
	assert.InDelta(t, 60.5, mouse.TotalRevenueIncTax, 1e-9)

	assert.Equal(t, "Consola", result.Products[2].Product)
}

func TestTop_RejectsInvalidN(t *testing.T) {
	_, err := newAggregator().Top(table(), 0)
	require.Error(t, err)
}

// =============================================================================
// LOGGING AND LIFECYCLE
// =============================================================================

func TestRejectionsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	agg := New(config.DefaultColumns(), log.New(&buf))

	_, err := agg.Revenue(table(row("Mouse", "X", "abc", "1", "1", "")))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "row skipped")
	assert.Contains(t, out, "Quantitat_Venuda")
	assert.Contains(t, out, "abc")
}

func TestPassesAreIndependent(t *testing.T) {
	agg := newAggregator()
	tbl := table(
		row("Mouse", "X", "2", "10", "21", "1"),
		row("Mouse", "X", "3", "10", "21", "1"),
	)

	first, err := agg.Revenue(tbl)
	require.NoError(t, err)
	second, err := agg.Revenue(tbl)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 5, second.Totals.TotalUnitsSold)
}

func TestCustomColumns(t *testing.T) {
	columns := config.Columns{
		Product:       "Product",
		Category:      "Category",
		QuantitySold:  "Qty",
		UnitPrice:     "Price",
		TaxRate:       "VAT",
		StockQuantity: "Stock",
	}
	tbl := &types.Table{
		Headers: []string{"Product", "Category", "Qty", "Price", "VAT", "Stock"},
		Rows:    []types.RawRow{{"Product": "Mouse", "Category": "X", "Qty": "2", "Price": "5", "VAT": "10", "Stock": "1"}},
	}

	result, err := New(columns, nil).Revenue(tbl)
	require.NoError(t, err)
	assert.InDelta(t, 11.0, result.Totals.TotalRevenueIncTax, 1e-9)
}
