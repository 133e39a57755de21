package xmlwriter

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/shop-analytics/internal/aggregator"
	"github.com/ginjaninja78/shop-analytics/internal/analytics"
	"github.com/ginjaninja78/shop-analytics/internal/types"
)

func snapshot() *analytics.Snapshot {
	return &analytics.Snapshot{
		RunID:      "run-1",
		SourceFile: "datos.csv",
		Revenue: &aggregator.RevenueResult{
			Totals: types.GlobalTotals{DistinctProductCount: 1, TotalUnitsSold: 5, TotalRevenueExTax: 50, TotalRevenueIncTax: 60.5},
		},
		Stock: &aggregator.StockResult{
			Products: []types.StockAggregate{{Product: "Mouse", Category: "Perifèrics", TotalStock: 9}},
		},
		Top: &aggregator.TopResult{
			Products: []types.ProductAggregate{
				{Product: "Mouse & Co", Category: "Perifèrics", TotalQuantity: 5, TotalRevenueExTax: 50, TotalRevenueIncTax: 60.5},
			},
		},
	}
}

func TestGenerate(t *testing.T) {
	out, err := Generate(snapshot())
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, text, `<analytics run="run-1" source="datos.csv" currency="€">`)
	assert.Contains(t, text, "<revenueIncTax>60.50</revenueIncTax>")
	assert.Contains(t, text, `<product n="1">`)
	assert.Contains(t, text, "<name>Mouse &amp; Co</name>")
	assert.NotContains(t, text, "<warnings>")

	var doc document
	require.NoError(t, xml.Unmarshal(out, &doc))
	assert.Equal(t, 5, doc.Revenue.UnitsSold)
	require.Len(t, doc.Stock, 1)
	assert.Equal(t, 9, doc.Stock[0].Quantity)
	require.Len(t, doc.Top, 1)
	assert.Equal(t, "50.00", doc.Top[0].RevenueExTax)
}

func TestGenerate_Warnings(t *testing.T) {
	s := snapshot()
	s.Top.Warnings = []types.Warning{{Row: 4, Product: "Teclat", Kind: types.IncompleteRow, Field: "IVA", Message: "missing IVA"}}

	out, err := GenerateWithOptions(s, GenerateOptions{Indent: "\t", CurrencySymbol: "$"})
	require.NoError(t, err)

	assert.False(t, strings.HasPrefix(string(out), "<?xml"))

	var doc document
	require.NoError(t, xml.Unmarshal(out, &doc))
	assert.Equal(t, "$", doc.Currency)
	require.NotNil(t, doc.Warnings)
	require.Len(t, doc.Warnings.Items, 1)

	w := doc.Warnings.Items[0]
	assert.Equal(t, "top", w.Report)
	assert.Equal(t, 4, w.Row)
	assert.Equal(t, "IncompleteRow", w.Kind)
	assert.Equal(t, "missing IVA", w.Message)
}
