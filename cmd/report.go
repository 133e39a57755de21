// =============================================================================
// Shop Analytics - Report Commands
// =============================================================================
//
// This file defines one command per report plus 'all', which prints the
// three reports in sequence.
//
// COMMAND USAGE:
//   analytics revenue [flags]
//   analytics stock   [flags]
//   analytics top     [--n N] [flags]
//   analytics all     [--n N] [flags]
//
// Every report reads the input file on its own. In 'all', a report that
// fails (missing file, missing columns) is explained and the next report
// still runs; the command then exits non-zero.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// topN overrides top_n for the best-sellers report.
var topN int

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var revenueCmd = &cobra.Command{
	Use:   "revenue",
	Short: "Print the total revenue with and without tax",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app, w io.Writer) error {
			return a.Revenue(w)
		})
	},
}

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Print the available stock per product",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app, w io.Writer) error {
			return a.Stock(w)
		})
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Print the best-selling products",
	Long: `Print the best-selling products ranked by units sold. Products selling the
same number of units keep the order in which they first appear in the file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app, w io.Writer) error {
			n, err := resolveTopN(cmd, a)
			if err != nil {
				return err
			}
			return a.Top(w, n)
		})
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Print the revenue, stock and best-sellers reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app, w io.Writer) error {
			n, err := resolveTopN(cmd, a)
			if err != nil {
				return err
			}
			return runAll(a, w, n)
		})
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(revenueCmd, stockCmd, topCmd, allCmd)

	for _, cmd := range []*cobra.Command{topCmd, allCmd} {
		cmd.Flags().IntVar(
			&topN,
			"n",
			0,
			"Number of best sellers to list (default: top_n from the configuration)",
		)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// withApp builds the app for cmd, runs fn against the command's output and
// releases the app afterwards.
func withApp(cmd *cobra.Command, fn func(a *app, w io.Writer) error) (err error) {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(a, cmd.OutOrStdout())
}

// resolveTopN returns the --n flag when given and top_n otherwise.
func resolveTopN(cmd *cobra.Command, a *app) (int, error) {
	if !cmd.Flags().Changed("n") {
		return a.cfg.TopN, nil
	}
	if topN < 1 {
		return 0, fmt.Errorf("--n must be at least 1, got %d", topN)
	}
	return topN, nil
}

// runAll prints every report. A failed report does not stop the next one.
func runAll(r reporter, w io.Writer, n int) error {
	var failed bool
	for _, run := range []func() error{
		func() error { return r.Revenue(w) },
		func() error { return r.Stock(w) },
		func() error { return r.Top(w, n) },
	} {
		if err := run(); err != nil {
			if !errors.Is(err, errReported) {
				return err
			}
			failed = true
		}
	}

	if failed {
		return errReported
	}
	return nil
}
