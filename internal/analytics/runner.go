// =============================================================================
// Shop Analytics - Report Runner
// =============================================================================
//
// This module orchestrates one report invocation, from opening the input file
// to the finished snapshot.
//
// REPORT PIPELINE:
//   1. Load the input table fresh (CSV or XLSX, chosen by file extension)
//   2. Run the aggregation pass of the requested report
//   3. Return the immutable snapshot and its warnings
//
// FAILURES:
//   - the input file cannot be opened: the error matches types.ErrFileNotFound
//   - a required column is missing: *record.SchemaError
//   - anything else, a panic included: *UnexpectedError
//   Each failure ends the current report only. Row-level rejections are not
//   failures; they come back as warnings inside the snapshot.
//
// Nothing is kept between invocations. Every report reads the file again, so
// edits to the input are picked up by the next report.
//
// =============================================================================

package analytics

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ginjaninja78/shop-analytics/internal/aggregator"
	"github.com/ginjaninja78/shop-analytics/internal/config"
	"github.com/ginjaninja78/shop-analytics/internal/csvparser"
	"github.com/ginjaninja78/shop-analytics/internal/record"
	"github.com/ginjaninja78/shop-analytics/internal/types"
	"github.com/ginjaninja78/shop-analytics/internal/xlsxparser"
)

// Report names, used in logs, error messages and workbook sheets.
const (
	ReportRevenue = "revenue"
	ReportStock   = "stock"
	ReportTop     = "top"
)

// =============================================================================
// ERRORS
// =============================================================================

// UnexpectedError wraps any failure of a report that is neither a file nor a
// schema problem.
type UnexpectedError struct {
	Report string
	Err    error
}

// Error implements the error interface.
func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error in %s report: %v", e.Report, e.Err)
}

// Unwrap returns the underlying cause.
func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot holds the results of all three reports computed from a single
// read of the input.
type Snapshot struct {
	RunID      string
	SourceFile string
	Revenue    *aggregator.RevenueResult
	Stock      *aggregator.StockResult
	Top        *aggregator.TopResult
}

// Warnings returns the warnings of every report, tagged with the report name.
func (s *Snapshot) Warnings() []ReportWarning {
	var all []ReportWarning
	add := func(report string, warnings []types.Warning) {
		for _, w := range warnings {
			all = append(all, ReportWarning{Report: report, Warning: w})
		}
	}
	add(ReportRevenue, s.Revenue.Warnings)
	add(ReportStock, s.Stock.Warnings)
	add(ReportTop, s.Top.Warnings)
	return all
}

// ReportWarning is a warning together with the report that raised it.
type ReportWarning struct {
	Report string
	types.Warning
}

// =============================================================================
// RUNNER
// =============================================================================

// Runner runs reports against the configured input file.
type Runner struct {
	cfg    *config.Config
	logger *log.Logger

	// loadTable reads the input. Replaced in tests.
	loadTable func(cfg *config.Config) (*types.Table, error)
}

// New creates a Runner. A nil logger discards all log output.
//
// PARAMETERS:
//   - cfg: The loaded configuration. InputFile, Sheet, CSV and Columns are
//     read on every invocation.
//   - logger: The application logger.
//
// RETURNS:
//   - A new Runner instance.
func New(cfg *config.Config, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		cfg:       cfg,
		logger:    logger,
		loadTable: LoadTable,
	}
}

// Revenue runs the revenue report.
func (r *Runner) Revenue() (*aggregator.RevenueResult, error) {
	var result *aggregator.RevenueResult
	err := r.run(ReportRevenue, uuid.NewString(), func(agg *aggregator.Aggregator, table *types.Table) (int, error) {
		res, err := agg.Revenue(table)
		if err != nil {
			return 0, err
		}
		result = res
		return len(res.Warnings), nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Stock runs the stock report.
func (r *Runner) Stock() (*aggregator.StockResult, error) {
	var result *aggregator.StockResult
	err := r.run(ReportStock, uuid.NewString(), func(agg *aggregator.Aggregator, table *types.Table) (int, error) {
		res, err := agg.Stock(table)
		if err != nil {
			return 0, err
		}
		result = res
		return len(res.Warnings), nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Top runs the best-sellers report for the first n products.
func (r *Runner) Top(n int) (*aggregator.TopResult, error) {
	var result *aggregator.TopResult
	err := r.run(ReportTop, uuid.NewString(), func(agg *aggregator.Aggregator, table *types.Table) (int, error) {
		res, err := agg.Top(table, n)
		if err != nil {
			return 0, err
		}
		result = res
		return len(res.Warnings), nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Snapshot reads the input once and runs all three reports on it. The first
// failing report fails the snapshot.
func (r *Runner) Snapshot(n int) (*Snapshot, error) {
	snapshot := &Snapshot{RunID: uuid.NewString()}
	err := r.run("snapshot", snapshot.RunID, func(agg *aggregator.Aggregator, table *types.Table) (int, error) {
		var err error
		snapshot.SourceFile = table.SourceFile
		if snapshot.Revenue, err = agg.Revenue(table); err != nil {
			return 0, fmt.Errorf("%s: %w", ReportRevenue, err)
		}
		if snapshot.Stock, err = agg.Stock(table); err != nil {
			return 0, fmt.Errorf("%s: %w", ReportStock, err)
		}
		if snapshot.Top, err = agg.Top(table, n); err != nil {
			return 0, fmt.Errorf("%s: %w", ReportTop, err)
		}
		return len(snapshot.Revenue.Warnings) + len(snapshot.Stock.Warnings) + len(snapshot.Top.Warnings), nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// pass runs one aggregation over a loaded table and reports how many rows it
// rejected.
type pass func(agg *aggregator.Aggregator, table *types.Table) (int, error)

// run executes one report invocation. The run ID is attached to every log
// line the invocation produces.
func (r *Runner) run(report, runID string, fn pass) (err error) {
	logger := r.logger.With("run", runID, "report", report)
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			err = &UnexpectedError{Report: report, Err: fmt.Errorf("panic: %v", p)}
		}
		if err != nil {
			logger.Error("report failed", "err", err)
		}
	}()

	logger.Debug("loading input", "file", r.cfg.InputFile)

	table, err := r.loadTable(r.cfg)
	if err != nil {
		return classify(report, err)
	}

	logger.Debug("input loaded", "rows", len(table.Rows), "columns", len(table.Headers))

	agg := aggregator.New(r.cfg.Columns, logger)
	rejected, err := fn(agg, table)
	if err != nil {
		return classify(report, err)
	}

	logger.Info("report complete",
		"rows", len(table.Rows),
		"skipped", rejected,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	return nil
}

// classify passes file and schema failures through unchanged and wraps
// everything else in an UnexpectedError.
func classify(report string, err error) error {
	var schemaErr *record.SchemaError
	if errors.Is(err, types.ErrFileNotFound) || errors.As(err, &schemaErr) {
		return err
	}
	return &UnexpectedError{Report: report, Err: err}
}

// =============================================================================
// INPUT LOADING
// =============================================================================

// LoadTable reads the configured input file. A .xlsx extension selects the
// workbook reader; any other file is read as CSV.
func LoadTable(cfg *config.Config) (*types.Table, error) {
	if IsWorkbook(cfg.InputFile) {
		return xlsxparser.Read(cfg.InputFile, cfg.Sheet)
	}
	return csvparser.Read(cfg.InputFile, cfg.CSV)
}

// IsWorkbook reports whether path names an XLSX workbook.
func IsWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}
