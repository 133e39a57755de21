// =============================================================================
// Shop Analytics - Aggregator
// =============================================================================
//
// This module folds the rows of one input table into the figures of one
// report. There is one pass per report:
//
//   Revenue : global units sold, distinct products and revenue totals
//   Stock   : stock per product
//   Top     : sales per product, ranked by units sold
//
// PASS LIFECYCLE:
//   1. Schema check against the header. A missing column fails the pass
//      before any row is read.
//   2. Each row is parsed into a typed record. Rejected rows are skipped
//      and produce exactly one warning each.
//   3. Accepted records are merged into a pass-local accumulator keyed by
//      product name (exact, case-sensitive).
//   4. The accumulator is copied into an immutable result.
//
// Amounts are accumulated in full precision; rounding to two decimals is a
// formatting concern.
//
// =============================================================================

package aggregator

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/ginjaninja78/shop-analytics/internal/config"
	"github.com/ginjaninja78/shop-analytics/internal/record"
	"github.com/ginjaninja78/shop-analytics/internal/types"
)

// =============================================================================
// RESULTS
// =============================================================================

// RevenueResult is the snapshot of a revenue pass.
type RevenueResult struct {
	Totals   types.GlobalTotals
	RowsRead int
	Warnings []types.Warning
}

// StockResult is the snapshot of a stock pass. Products are ordered by name.
type StockResult struct {
	Products []types.StockAggregate
	RowsRead int
	Warnings []types.Warning
}

// TopResult is the snapshot of a best-sellers pass.
type TopResult struct {
	// Products holds at most N products, best seller first.
	Products []types.ProductAggregate

	// DistinctProducts is the number of products ranked.
	DistinctProducts int

	RowsRead int
	Warnings []types.Warning
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregator runs report passes. It keeps no state between passes.
type Aggregator struct {
	columns config.Columns
	logger  *log.Logger
}

// New creates an Aggregator for the given header names. A nil logger
// discards rejection logs; the warnings are still returned in the results.
func New(columns config.Columns, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Aggregator{
		columns: columns,
		logger:  logger,
	}
}

// RevenueColumns returns the columns the revenue pass requires.
func (a *Aggregator) RevenueColumns() []string {
	return []string{a.columns.Product, a.columns.QuantitySold, a.columns.UnitPrice, a.columns.TaxRate}
}

// StockColumns returns the columns the stock pass requires.
func (a *Aggregator) StockColumns() []string {
	return []string{a.columns.Product, a.columns.Category, a.columns.StockQuantity}
}

// TopColumns returns the columns the best-sellers pass requires.
func (a *Aggregator) TopColumns() []string {
	return []string{a.columns.Product, a.columns.Category, a.columns.QuantitySold, a.columns.UnitPrice, a.columns.TaxRate}
}

// =============================================================================
// REVENUE PASS
// =============================================================================

// Revenue computes the global revenue totals.
func (a *Aggregator) Revenue(table *types.Table) (*RevenueResult, error) {
	required := a.RevenueColumns()
	if err := record.CheckSchema(table.Headers, required); err != nil {
		return nil, err
	}

	result := &RevenueResult{RowsRead: len(table.Rows)}
	products := make(map[string]struct{})

	for i, row := range table.Rows {
		sale, err := record.ParseSale(row, a.columns, required)
		if err != nil {
			if err := a.reject(&result.Warnings, i, err); err != nil {
				return nil, err
			}
			continue
		}

		products[sale.Product] = struct{}{}
		result.Totals.TotalUnitsSold += sale.QuantitySold
		result.Totals.TotalRevenueExTax += sale.RevenueExTax()
		result.Totals.TotalRevenueIncTax += sale.RevenueIncTax()
	}

	result.Totals.DistinctProductCount = len(products)

	return result, nil
}

// =============================================================================
// STOCK PASS
// =============================================================================

// Stock computes the stock per product. Rows repeating a product add their
// quantity to it; the category of the latest row wins.
func (a *Aggregator) Stock(table *types.Table) (*StockResult, error) {
	required := a.StockColumns()
	if err := record.CheckSchema(table.Headers, required); err != nil {
		return nil, err
	}

	result := &StockResult{RowsRead: len(table.Rows)}
	stock := make(map[string]*types.StockAggregate)

	for i, row := range table.Rows {
		rec, err := record.ParseStock(row, a.columns, required)
		if err != nil {
			if err := a.reject(&result.Warnings, i, err); err != nil {
				return nil, err
			}
			continue
		}

		agg, exists := stock[rec.Product]
		if !exists {
			agg = &types.StockAggregate{Product: rec.Product}
			stock[rec.Product] = agg
		}
		agg.TotalStock += rec.StockQuantity
		agg.Category = rec.Category
	}

	result.Products = make([]types.StockAggregate, 0, len(stock))
	for _, agg := range stock {
		result.Products = append(result.Products, *agg)
	}
	sort.Slice(result.Products, func(i, j int) bool {
		return result.Products[i].Product < result.Products[j].Product
	})

	return result, nil
}

// =============================================================================
// BEST-SELLERS PASS
// =============================================================================

// Top ranks products by units sold and keeps the first n.
//
// Products with equal quantities keep the order in which they first appeared
// in the input.
func (a *Aggregator) Top(table *types.Table, n int) (*TopResult, error) {
	if n < 1 {
		return nil, fmt.Errorf("top count must be at least 1, got %d", n)
	}

	required := a.TopColumns()
	if err := record.CheckSchema(table.Headers, required); err != nil {
		return nil, err
	}

	result := &TopResult{RowsRead: len(table.Rows)}
	products := make(map[string]*types.ProductAggregate)
	order := []string{} // first occurrence

	for i, row := range table.Rows {
		sale, err := record.ParseSale(row, a.columns, required)
		if err != nil {
			if err := a.reject(&result.Warnings, i, err); err != nil {
				return nil, err
			}
			continue
		}

		agg, exists := products[sale.Product]
		if !exists {
			agg = &types.ProductAggregate{Product: sale.Product}
			products[sale.Product] = agg
			order = append(order, sale.Product)
		}
		agg.Category = sale.Category
		agg.TotalQuantity += sale.QuantitySold
		agg.TotalRevenueExTax += sale.RevenueExTax()
		agg.TotalRevenueIncTax += sale.RevenueIncTax()
	}

	ranked := make([]types.ProductAggregate, 0, len(order))
	for _, product := range order {
		ranked = append(ranked, *products[product])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalQuantity > ranked[j].TotalQuantity
	})

	result.DistinctProducts = len(ranked)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	result.Products = ranked

	return result, nil
}

// =============================================================================
// REJECTIONS
// =============================================================================

// reject records and logs one skipped row. Anything other than a
// *record.Rejection is returned so that the pass fails instead of silently
// dropping the row.
func (a *Aggregator) reject(warnings *[]types.Warning, index int, err error) error {
	var rejection *record.Rejection
	if !errors.As(err, &rejection) {
		return fmt.Errorf("row %d: %w", index+1, err)
	}

	warning := types.Warning{
		Row:     index + 1,
		Product: rejection.Product,
		Kind:    rejection.Kind,
		Field:   rejection.Field,
		Value:   rejection.Value,
		Message: rejection.Error(),
	}
	*warnings = append(*warnings, warning)

	a.logger.Warn("row skipped",
		"row", warning.Row,
		"product", warning.Product,
		"kind", string(warning.Kind),
		"field", warning.Field,
		"value", warning.Value,
	)

	return nil
}
