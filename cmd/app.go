package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/shop-analytics/internal/analytics"
	"github.com/ginjaninja78/shop-analytics/internal/config"
	"github.com/ginjaninja78/shop-analytics/internal/logging"
	"github.com/ginjaninja78/shop-analytics/internal/report"
	"github.com/ginjaninja78/shop-analytics/internal/types"
	"github.com/ginjaninja78/shop-analytics/pkg/utils"
)

// errReported is returned by commands whose failure has already been
// explained to the user. Execute exits non-zero without printing it again.
var errReported = errors.New("report failed")

// reporter prints the three reports. Failures are explained on the error
// writer before they are returned.
type reporter interface {
	Revenue(w io.Writer) error
	Stock(w io.Writer) error
	Top(w io.Writer, n int) error
}

// app bundles what every command needs for one process run.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	runner *analytics.Runner
	opts   report.Options

	// errOut receives failure explanations.
	errOut io.Writer

	// warnings collects the skipped rows of every report of the run for the
	// optional warning log.
	warnings []utils.WarningLogEntry
}

// newApp loads the configuration and the logger from the command's flags.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log, verbose)
	if err != nil {
		return nil, err
	}

	logger.Debug("configuration loaded", "input", cfg.InputFile, "top_n", cfg.TopN)

	return newAppWith(cfg, logger, cmd.ErrOrStderr()), nil
}

func newAppWith(cfg *config.Config, logger *logging.Logger, errOut io.Writer) *app {
	return &app{
		cfg:    cfg,
		logger: logger,
		runner: analytics.New(cfg, logger.Logger),
		opts:   report.Options{CurrencySymbol: cfg.CurrencySymbol},
		errOut: errOut,
	}
}

// loadConfig reads the config file named by --config and applies the
// --file override. The default config file may be absent; an explicitly
// given one may not.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.DefaultConfigFile
	}

	cfg, err := config.Load(path, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}

	if inputFile != "" {
		cfg.InputFile = inputFile
	}

	return cfg, nil
}

// =============================================================================
// REPORTS
// =============================================================================

// Revenue prints the revenue report.
func (a *app) Revenue(w io.Writer) error {
	result, err := a.runner.Revenue()
	if err != nil {
		return a.fail(err)
	}
	a.collect(analytics.ReportRevenue, result.Warnings)
	return report.FormatRevenue(w, result, a.opts)
}

// Stock prints the stock report.
func (a *app) Stock(w io.Writer) error {
	result, err := a.runner.Stock()
	if err != nil {
		return a.fail(err)
	}
	a.collect(analytics.ReportStock, result.Warnings)
	return report.FormatStock(w, result, a.opts)
}

// Top prints the best-sellers report for the first n products.
func (a *app) Top(w io.Writer, n int) error {
	result, err := a.runner.Top(n)
	if err != nil {
		return a.fail(err)
	}
	a.collect(analytics.ReportTop, result.Warnings)
	return report.FormatTop(w, result, a.opts)
}

// fail explains a failed report and returns errReported.
func (a *app) fail(err error) error {
	report.WriteError(a.errOut, err)
	return errReported
}

func (a *app) collect(reportName string, warnings []types.Warning) {
	for _, w := range warnings {
		a.warnings = append(a.warnings, warningEntry(reportName, w))
	}
}

func warningEntry(reportName string, w types.Warning) utils.WarningLogEntry {
	return utils.WarningLogEntry{
		Report:     reportName,
		Kind:       string(w.Kind),
		Message:    w.Message,
		RowNumber:  w.Row,
		Product:    w.Product,
		FieldName:  w.Field,
		FieldValue: w.Value,
	}
}

// Close writes the warning log when --warnings-log is set and releases the
// logger.
func (a *app) Close() error {
	var errs []error

	if warningsLog && len(a.warnings) > 0 {
		path, err := utils.WriteWarningLog(a.warnings, a.cfg.InputFile, a.cfg.OutputDir)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to write warning log: %w", err))
		} else {
			a.logger.Info("warning log written", "path", path, "warnings", len(a.warnings))
		}
	}

	if err := a.logger.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
