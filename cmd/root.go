// =============================================================================
// Shop Analytics - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Without a subcommand
// the root command starts the interactive menu.
//
// COBRA CLI STRUCTURE:
//   rootCmd (analytics)           interactive menu
//   ├── revenueCmd (analytics revenue)
//   ├── stockCmd   (analytics stock)
//   ├── topCmd     (analytics top)
//   ├── allCmd     (analytics all)
//   ├── exportCmd  (analytics export)
//   └── versionCmd (analytics version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --file, --verbose,
//   --warnings-log). Each command loads the configuration and the logger
//   through newApp.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/shop-analytics/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// inputFile overrides the input file of the configuration.
var inputFile string

// verbose enables debug logging when set to true.
var verbose bool

// warningsLog writes the skipped rows of the run to output_dir.
var warningsLog bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Shop Analytics - Revenue, stock and best-seller reports from a sales file",
	Long: `Shop Analytics reads a single sales-and-inventory table (CSV or XLSX) and
prints three reports: total revenue with and without tax, available stock per
product, and the best-selling products.

Rows with missing or malformed values are skipped with a warning; the rest of
the file is still reported.

Example Usage:
  analytics                          # Interactive menu
  analytics revenue                  # Revenue report
  analytics top --n 5                # Five best sellers
  analytics all --file ventas.xlsx   # Every report for another file
  analytics export                   # Write all reports to a workbook`,

	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return menuSession(a, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// menuSession runs the interactive menu and releases the app afterwards.
// Failures are explained inside the menu, next to the options.
func menuSession(a *app, in io.Reader, out io.Writer) (err error) {
	defer func() {
		if closeErr := a.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	a.errOut = out
	return runMenu(in, out, a, a.cfg)
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().StringVarP(
		&inputFile,
		"file",
		"f",
		"",
		"Input file to analyse (overrides input_file)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentFlags().BoolVar(
		&warningsLog,
		"warnings-log",
		false,
		"Write the skipped rows of the run to a log file in output_dir",
	)
}
